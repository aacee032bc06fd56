package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinFolder(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"empty base", []string{"", "a"}, "a"},
		{"empty rel", []string{"a", ""}, "a"},
		{"both empty", []string{"", ""}, ""},
		{"strips separators", []string{"/a/", "/b/"}, "a/b"},
		{"drops empty segments", []string{"a//b", "c"}, "a/b/c"},
		{"deep paths", []string{"base/dir", "sub/inner"}, "base/dir/sub/inner"},
		{"only separators", []string{"///", "/"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinFolder(tt.parts...))
		})
	}
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"), 3)
	writeFile(t, filepath.Join(root, "cam1", "b.mp4"), 5)
	writeFile(t, filepath.Join(root, "cam1", "inner", "c.mp4"), 7)
	writeFile(t, filepath.Join(root, "cam2", "d.mp4"), 2)

	entries, err := ScanDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[filepath.Base(e.Path)] = e
	}

	assert.Equal(t, "", byName["a.mp4"].RelDir)
	assert.Equal(t, "cam1", byName["b.mp4"].RelDir)
	assert.Equal(t, "cam1/inner", byName["c.mp4"].RelDir)
	assert.Equal(t, "cam2", byName["d.mp4"].RelDir)
	assert.Equal(t, int64(5), byName["b.mp4"].Size)

	// Lexical walk order: root files come before subdirectories named
	// after them alphabetically; here a.mp4 < cam1 < cam2.
	assert.Equal(t, "a.mp4", filepath.Base(entries[0].Path))
	assert.Equal(t, "b.mp4", filepath.Base(entries[1].Path))
	assert.Equal(t, "c.mp4", filepath.Base(entries[2].Path))
	assert.Equal(t, "d.mp4", filepath.Base(entries[3].Path))
}

func TestStatFileRejectsDirectory(t *testing.T) {
	root := t.TempDir()
	_, err := StatFile(root)
	assert.Error(t, err)
}

func TestStatFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "v.mp4")
	writeFile(t, path, 42)

	entry, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, entry.Path)
	assert.Equal(t, "", entry.RelDir)
	assert.Equal(t, int64(42), entry.Size)
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}
