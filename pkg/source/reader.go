package source

import (
	"fmt"
	"io"
)

// ReaderSource splits a stream into fixed-size frames.
type ReaderSource struct {
	r         io.Reader
	frameSize int
}

func NewReaderSource(r io.Reader, frameSize int) (*ReaderSource, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: frame size %d", ErrFrameSize, frameSize)
	}
	return &ReaderSource{r: r, frameSize: frameSize}, nil
}

// ReadFrame returns the next frame in a new buffer. A trailing partial frame is
// reported as io.ErrUnexpectedEOF.
func (s *ReaderSource) ReadFrame() ([]byte, error) {
	buf := make([]byte, s.frameSize)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: trailing partial frame", err)
		}
		return nil, err
	}
	return buf, nil
}

// Rewind seeks back to the start if the underlying reader is an io.Seeker.
func (s *ReaderSource) Rewind() error {
	seeker, ok := s.r.(io.Seeker)
	if !ok {
		return fmt.Errorf("source: %T cannot rewind", s.r)
	}
	_, err := seeker.Seek(0, io.SeekStart)
	return err
}

func (s *ReaderSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
