package ini_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-ini"
)

var update = flag.Bool("update", false, "update golden files")

func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.ini")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			src, err := os.ReadFile(file)
			require.NoError(t, err)

			var actual []byte
			f, err := ini.Parse(src)
			if err != nil {
				// Malformed documents record the error message instead.
				actual = []byte(err.Error())
			} else {
				actual, err = f.MarshalText()
				require.NoError(t, err)
			}

			goldenFile := strings.TrimSuffix(file, ".ini") + ".golden"
			if *update {
				require.NoError(t, os.WriteFile(goldenFile, actual, 0o644))
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")
			require.Equal(t, string(expected), string(actual), "Stored output does not match golden file.")
		})
	}
}
