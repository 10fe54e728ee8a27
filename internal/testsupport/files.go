package testsupport

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ListDir returns the sorted names of the entries in dir. A missing directory
// yields an empty list.
func ListDir(t testing.TB, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// ModTime returns the modification time of path, failing the test if it is missing.
func ModTime(t testing.TB, path string) int64 {
	t.Helper()

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info.ModTime().UnixNano()
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
