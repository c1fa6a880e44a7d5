package ini_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/KimNorgaard/go-ini"
	"github.com/KimNorgaard/go-ini/internal/testutil"
)

func TestStore(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      func(*ini.Config)
		expected string
	}{
		{
			name:     "default",
			expected: "# comment\n\n#section-comment\n[section]\n#option-comment\noption = value\noption = value2\n\n",
		},
		{
			name:     "without comments",
			cfg:      func(c *ini.Config) { c.Comment = false },
			expected: "[section]\noption = value\noption = value2\n\n",
		},
		{
			name:     "without header comment",
			cfg:      func(c *ini.Config) { c.HeaderComment = false },
			expected: "#section-comment\n[section]\n#option-comment\noption = value\noption = value2\n\n",
		},
		{
			name: "single option, custom syntax",
			cfg: func(c *ini.Config) {
				c.MultiOption = false
				c.PadOperator = false
				c.Operator = ':'
				c.CommentMarker = ';'
				c.LineSeparator = "\r\n"
			},
			expected: "; comment\r\n\r\n;section-comment\r\n[section]\r\n;option-comment\r\noption:value2\r\n\r\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ini.DefaultConfig()
			if tc.cfg != nil {
				tc.cfg(&cfg)
			}
			f := ini.New(cfg)
			f.SetComment(" comment")
			s := f.Add("section")
			s.Add("option", "value")
			s.Add("option", "value2")
			require.NoError(t, s.SetOptionComment("option", "option-comment"))
			f.SetSectionComment("section", "section-comment")

			var buf bytes.Buffer
			require.NoError(t, f.Store(&buf))
			require.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestStore_GlobalSection(t *testing.T) {
	cfg := ini.DefaultConfig()
	cfg.GlobalSection = true
	f := ini.New(cfg)
	f.Add("s").Add("k", "v")
	f.Add("?").Add("top", "1")

	text, err := f.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "top = 1\n\n[s]\nk = v\n\n", string(text))

	again := load(t, cfg, string(text))
	require.Equal(t, []string{"?", "s"}, again.Names())
}

func TestStore_EscapesContent(t *testing.T) {
	f := ini.New(ini.DefaultConfig())
	s := f.Add("odd]name")
	s.Add("key=with:ops", " padded ")
	s.Add("#hash", "line\nbreak")
	s.Add("path", `C:\dir`)

	text, err := f.MarshalText()
	require.NoError(t, err)

	again := load(t, ini.DefaultConfig(), string(text))
	if diff := cmp.Diff(snapshot(t, f), snapshot(t, again)); diff != "" {
		t.Errorf("document mismatch after store and load (-want +got):\n%s", diff)
	}
}

func TestStoreFile(t *testing.T) {
	t.Run("no path", func(t *testing.T) {
		err := ini.New(ini.DefaultConfig()).StoreFile()
		require.ErrorIs(t, err, ini.ErrSourceNotFound)
	})

	t.Run("unwritable path", func(t *testing.T) {
		f := ini.New(ini.DefaultConfig())
		f.SetPath(filepath.Join(t.TempDir(), "no", "such", "dir", "x.ini"))
		err := f.StoreFile()
		require.ErrorIs(t, err, ini.ErrSourceNotFound)
	})

	t.Run("dwarfs round trip", func(t *testing.T) {
		f, err := ini.Parse(testutil.ReadTestData(t, "dwarfs.ini"))
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "out.ini")
		f.SetPath(path)
		require.NoError(t, f.StoreFile())

		dup, err := ini.ParseFile(path)
		require.NoError(t, err)
		if diff := cmp.Diff(snapshot(t, f), snapshot(t, dup)); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
	})
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestStore_WriteError(t *testing.T) {
	cause := errors.New("disk full")
	f := load(t, ini.DefaultConfig(), "[s]\nk = v\n")

	err := f.Store(failingWriter{cause})
	require.ErrorIs(t, err, ini.ErrIO)
	require.ErrorIs(t, err, cause)

	cfg := f.Config()
	cfg.Encoding = charmap.Windows1252
	f.SetConfig(cfg)
	err = f.Store(failingWriter{cause})
	require.ErrorIs(t, err, ini.ErrIO)
}

func TestWriteTo(t *testing.T) {
	f := load(t, ini.DefaultConfig(), "[s]\nk=v\n")
	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, "[s]\nk = v\n\n", buf.String())
}

func TestStore_UnrepresentableCharacters(t *testing.T) {
	cfg := ini.DefaultConfig()
	cfg.Encoding = charmap.ISO8859_1
	f := ini.New(cfg)
	f.Add("s").Add("k", "snow ☃")

	var buf bytes.Buffer
	require.NoError(t, f.Store(&buf))
	require.Equal(t, "[s]\nk = snow \x1a\n\n", buf.String())
}

func TestUnmarshalText_ZeroFile(t *testing.T) {
	var f ini.File
	require.NoError(t, f.UnmarshalText([]byte("[s]\nk = v\n")))
	require.Equal(t, []string{"s"}, f.Names())
	require.Equal(t, ini.DefaultConfig(), f.Config())
}

func TestStore_EmptyNames(t *testing.T) {
	f := ini.New(ini.DefaultConfig())
	f.Add("s").Add("", "v")
	_, err := f.MarshalText()
	require.ErrorIs(t, err, ini.ErrInvalidArgument)

	path := filepath.Join(t.TempDir(), "out.ini")
	f.SetPath(path)
	require.ErrorIs(t, f.StoreFile(), ini.ErrInvalidArgument)
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	f = ini.New(ini.DefaultConfig())
	f.Add("").Add("k", "v")
	require.ErrorIs(t, f.Store(io.Discard), ini.ErrInvalidArgument)

	cfg := ini.DefaultConfig()
	cfg.EmptySection = true
	f = ini.New(cfg)
	f.Add("").Add("k", "v")
	text, err := f.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "[]\nk = v\n\n", string(text))
	require.Equal(t, []string{""}, load(t, cfg, string(text)).Names())
}
