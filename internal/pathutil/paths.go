// Package pathutil computes destination folder paths for uploads and scans
// local directory trees into ordered upload entries.
package pathutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry describes one local file queued for upload.
type Entry struct {
	// Path is the local filesystem path.
	Path string
	// RelDir is the file's directory within the selected tree, slash
	// separated, empty for files at the tree root (and for single-file
	// selections).
	RelDir string
	// Size is the file size in bytes.
	Size int64
}

// JoinFolder joins folder path parts into a destination prefix: leading and
// trailing separators are stripped, empty segments dropped, and the
// remaining segments joined with a single "/". All-empty input yields "".
func JoinFolder(parts ...string) string {
	var segments []string
	for _, part := range parts {
		for _, seg := range strings.Split(filepath.ToSlash(part), "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	return strings.Join(segments, "/")
}

// StatFile returns the entry for a single regular file.
func StatFile(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	if info.IsDir() {
		return Entry{}, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrInvalid}
	}
	return Entry{Path: path, Size: info.Size()}, nil
}

// ScanDir walks a directory tree and returns its regular files in lexical
// walk order, each carrying the slash-separated directory it sits in
// relative to root.
func ScanDir(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relDir := filepath.ToSlash(filepath.Dir(rel))
		if relDir == "." {
			relDir = ""
		}
		entries = append(entries, Entry{Path: path, RelDir: relDir, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ResolveAbsolutePath expands a leading ~ and makes the path absolute.
func ResolveAbsolutePath(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}
	return filepath.Abs(path)
}
