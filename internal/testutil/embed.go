package testutil

import (
	"embed"
	"io/fs"
	"testing"
)

//go:embed testdata
var testdataFS embed.FS

// FS returns the embedded test files, rooted at the testdata directory.
func FS() fs.FS {
	sub, err := fs.Sub(testdataFS, "testdata")
	if err != nil {
		panic(err)
	}
	return sub
}

// ReadTestData returns the content of an embedded test file, failing tb if
// it cannot be read.
func ReadTestData(tb testing.TB, name string) []byte {
	tb.Helper()
	data, err := fs.ReadFile(FS(), name)
	if err != nil {
		tb.Fatalf("failed to read test data file '%s': %v", name, err)
	}
	return data
}
