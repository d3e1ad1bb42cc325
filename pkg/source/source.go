// Package source reads packed frames from recorded dumps.
package source

import (
	"errors"
	"io"
	"os"
)

var ErrFrameSize = errors.New("source: size is not a multiple of the frame size")

// Source yields packed frames. ReadFrame returns io.EOF after the last frame.
type Source interface {
	ReadFrame() ([]byte, error)
	Close() error
}

// Rewinder is implemented by sources that can restart from their first frame.
type Rewinder interface {
	Rewind() error
}

type loopSource struct {
	Source
	r Rewinder
}

// Loop returns a source that restarts src at its end. Sources that cannot rewind
// are returned unchanged.
func Loop(src Source) Source {
	r, ok := src.(Rewinder)
	if !ok {
		return src
	}
	return &loopSource{Source: src, r: r}
}

func (l *loopSource) ReadFrame() ([]byte, error) {
	buf, err := l.Source.ReadFrame()
	if err != io.EOF {
		return buf, err
	}
	if err := l.r.Rewind(); err != nil {
		return nil, err
	}
	return l.Source.ReadFrame()
}

// Open returns a DirSource of *.raw files when path is a directory and a
// FileSource otherwise.
func Open(path string, frameSize int) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return OpenDir(path, "*.raw")
	}
	return OpenFile(path, frameSize)
}
