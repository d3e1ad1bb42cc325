package decode

import (
	"errors"
	"fmt"
	"image"

	"github.com/kevmo314/go-raw10/pkg/formats"
	"github.com/kevmo314/go-raw10/pkg/source"
)

var (
	ErrEAGAIN    = errors.New("EAGAIN")
	ErrFrameSize = errors.New("decode: packed frame has the wrong size")
)

type VideoDecoder interface {
	ReadFrame() (image.Image, error)
	Write(pkt []byte) (int, error)
	Close() error
}

// NewFormatDecoder returns a decoder for frames of format f. Bayer formats are
// demosaiced unless WithMosaic is passed.
func NewFormatDecoder(f formats.Format, width, height int, opts ...Option) (*Raw10Decoder, error) {
	if !f.IsRAW10() {
		return nil, fmt.Errorf("%w: %s", formats.ErrUnknownFormat, f)
	}
	if p, ok := f.Pattern(); ok {
		opts = append([]Option{WithPattern(p)}, opts...)
	}
	return NewRaw10Decoder(width, height, opts...)
}

type SourceDecoder struct {
	src source.Source
	dec VideoDecoder
}

func NewSourceDecoder(src source.Source, dec VideoDecoder) *SourceDecoder {
	return &SourceDecoder{src: src, dec: dec}
}

// ReadFrame feeds packed frames from the source to the decoder until it yields an
// image. It returns io.EOF once the source is exhausted.
func (d *SourceDecoder) ReadFrame() (image.Image, error) {
	for {
		img, err := d.dec.ReadFrame()
		if err == nil {
			return img, nil
		}
		if err != ErrEAGAIN {
			return nil, err
		}
		buf, err := d.src.ReadFrame()
		if err != nil {
			return nil, err
		}
		if _, err := d.dec.Write(buf); err != nil {
			return nil, err
		}
	}
}

func (d *SourceDecoder) Close() error {
	return errors.Join(d.dec.Close(), d.src.Close())
}
