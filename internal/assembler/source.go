package assembler

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// entry is one path contributed by one source.
type entry struct {
	name     string // slash separated, directories end in "/"
	dir      bool
	mode     fs.FileMode
	modified time.Time
	source   string
	open     func() (io.ReadCloser, error)
}

// sourceIndex is the enumerated content of one classpath source.
type sourceIndex struct {
	path    string
	entries []entry
	closer  io.Closer
}

func (s *sourceIndex) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// indexSource enumerates a directory tree in lexical order, or an archive in
// its stored entry order.
func indexSource(src string) (*sourceIndex, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return indexDir(src)
	}
	return indexArchive(src)
}

func indexDir(root string) (*sourceIndex, error) {
	idx := &sourceIndex{path: root}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			idx.entries = append(idx.entries, entry{
				name:     name + "/",
				dir:      true,
				mode:     info.Mode(),
				modified: info.ModTime(),
				source:   root,
			})
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		full := p
		idx.entries = append(idx.entries, entry{
			name:     name,
			mode:     info.Mode(),
			modified: info.ModTime(),
			source:   root,
			open:     func() (io.ReadCloser, error) { return os.Open(full) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return idx, nil
}

func indexArchive(archive string) (*sourceIndex, error) {
	rc, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("source %s is neither a directory nor a readable archive: %w", archive, err)
	}
	idx := &sourceIndex{path: archive, closer: rc}
	for _, f := range rc.File {
		name := strings.TrimPrefix(path.Clean("/"+f.Name), "/")
		if name == "" {
			continue
		}
		isDir := strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
		if isDir {
			name += "/"
		}
		zf := f
		e := entry{
			name:     name,
			dir:      isDir,
			mode:     f.Mode(),
			modified: f.Modified,
			source:   archive,
		}
		if !isDir {
			e.open = func() (io.ReadCloser, error) { return zf.Open() }
		}
		idx.entries = append(idx.entries, e)
	}
	return idx, nil
}

func pathMatch(pattern, name string) (bool, error) {
	return path.Match(pattern, strings.TrimSuffix(name, "/"))
}
