package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/facette/natsort"
)

// DirSource serves one frame per file, in natural name order so that frame_2
// precedes frame_10.
type DirSource struct {
	paths []string
	next  int
}

// OpenDir lists the files in dir matching the glob pattern.
func OpenDir(dir, pattern string) (*DirSource, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	files := paths[:0]
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("source: no files match %s", filepath.Join(dir, pattern))
	}
	natsort.Sort(files)
	return &DirSource{paths: files}, nil
}

// Paths returns the frame files in the order they are served.
func (s *DirSource) Paths() []string {
	return s.paths
}

func (s *DirSource) ReadFrame() ([]byte, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	p := s.paths[s.next]
	s.next++
	return os.ReadFile(p)
}

// Seek positions the source so the next ReadFrame returns frame i.
func (s *DirSource) Seek(i int) error {
	if i < 0 || i >= len(s.paths) {
		return fmt.Errorf("source: frame %d out of range [0, %d)", i, len(s.paths))
	}
	s.next = i
	return nil
}

func (s *DirSource) Rewind() error {
	s.next = 0
	return nil
}

func (s *DirSource) Close() error {
	return nil
}
