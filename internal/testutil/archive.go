package testutil

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// WriteZip creates a zip archive at path holding the given files. Names are
// written in sorted order so fixtures are stable.
func WriteZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, files[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// WriteTree creates the given files (relative paths) under root.
func WriteTree(t *testing.T, root string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

// ReadZip returns the entry names in archive order and the content of every
// non-directory entry.
func ReadZip(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()
	rc, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer rc.Close()

	var names []string
	contents := make(map[string]string)
	for _, f := range rc.File {
		names = append(names, f.Name)
		if f.FileInfo().IsDir() {
			continue
		}
		r, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		r.Close()
		require.NoError(t, err)
		contents[f.Name] = string(data)
	}
	return names, contents
}
