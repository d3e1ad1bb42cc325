//go:build !linux

package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// FileSource serves frames from a dump file read sequentially.
type FileSource struct {
	f         *os.File
	br        *bufio.Reader
	rs        *ReaderSource
	numFrames int
}

// OpenFile opens the dump at path. Its size must be a non-zero multiple of frameSize.
func OpenFile(path string, frameSize int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := fi.Size()
	if frameSize <= 0 || size == 0 || size%int64(frameSize) != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, frame size %d", ErrFrameSize, path, size, frameSize)
	}
	br := bufio.NewReaderSize(f, frameSize)
	return &FileSource{
		f:         f,
		br:        br,
		rs:        &ReaderSource{r: br, frameSize: frameSize},
		numFrames: int(size / int64(frameSize)),
	}, nil
}

func (s *FileSource) ReadFrame() ([]byte, error) {
	return s.rs.ReadFrame()
}

func (s *FileSource) NumFrames() int {
	return s.numFrames
}

// Seek positions the source so the next ReadFrame returns frame i.
func (s *FileSource) Seek(i int) error {
	if i < 0 || i >= s.numFrames {
		return fmt.Errorf("source: frame %d out of range [0, %d)", i, s.numFrames)
	}
	if _, err := s.f.Seek(int64(i)*int64(s.rs.frameSize), io.SeekStart); err != nil {
		return err
	}
	s.br.Reset(s.f)
	return nil
}

func (s *FileSource) Rewind() error {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	s.br.Reset(s.f)
	return nil
}

func (s *FileSource) Close() error {
	return s.f.Close()
}
