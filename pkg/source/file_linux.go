//go:build linux

package source

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// FileSource serves frames from a memory-mapped dump. Frames returned by ReadFrame
// alias the mapping and are only valid until Close.
type FileSource struct {
	data      []byte
	frameSize int
	offset    int
}

// OpenFile maps the dump at path. Its size must be a non-zero multiple of frameSize.
func OpenFile(path string, frameSize int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if frameSize <= 0 || size == 0 || size%int64(frameSize) != 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes, frame size %d", ErrFrameSize, path, size, frameSize)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &FileSource{data: data, frameSize: frameSize}, nil
}

func (s *FileSource) ReadFrame() ([]byte, error) {
	if s.data == nil {
		return nil, os.ErrClosed
	}
	if s.offset >= len(s.data) {
		return nil, io.EOF
	}
	buf := s.data[s.offset : s.offset+s.frameSize : s.offset+s.frameSize]
	s.offset += s.frameSize
	return buf, nil
}

// NumFrames returns the number of frames in the dump.
func (s *FileSource) NumFrames() int {
	return len(s.data) / s.frameSize
}

// Seek positions the source so the next ReadFrame returns frame i.
func (s *FileSource) Seek(i int) error {
	if i < 0 || i >= s.NumFrames() {
		return fmt.Errorf("source: frame %d out of range [0, %d)", i, s.NumFrames())
	}
	s.offset = i * s.frameSize
	return nil
}

func (s *FileSource) Rewind() error {
	s.offset = 0
	return nil
}

func (s *FileSource) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.Munmap(s.data)
	s.data = nil
	return err
}
