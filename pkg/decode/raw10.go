package decode

import (
	"fmt"
	"image"
	"runtime"

	raw10 "github.com/kevmo314/go-raw10"
	"github.com/kevmo314/go-raw10/pkg/bayer"
	"golang.org/x/sync/errgroup"
)

type Option func(*Raw10Decoder)

// WithStride sets the number of bytes per packed row, for sensors that pad rows.
func WithStride(stride int) Option {
	return func(d *Raw10Decoder) { d.stride = stride }
}

// WithPattern demosaics decoded frames into *image.RGBA64.
func WithPattern(p bayer.Pattern) Option {
	return func(d *Raw10Decoder) { d.pattern, d.demosaic = p, true }
}

// WithMosaic disables demosaicing; frames decode to *image.Gray16.
func WithMosaic() Option {
	return func(d *Raw10Decoder) { d.demosaic = false }
}

// WithExpand controls whether samples are shifted to the top of each 16-bit value.
// It defaults to true.
func WithExpand(expand bool) Option {
	return func(d *Raw10Decoder) { d.unpacker.Expand = expand }
}

// WithWorkers bounds the goroutines used per frame.
func WithWorkers(n int) Option {
	return func(d *Raw10Decoder) { d.unpacker.Workers = n }
}

// Raw10Decoder decodes packed RAW10 frames of a fixed geometry.
type Raw10Decoder struct {
	images        []image.Image
	width, height int
	stride        int
	pattern       bayer.Pattern
	demosaic      bool
	unpacker      raw10.Unpacker
	samples       []uint16
}

func NewRaw10Decoder(width, height int, opts ...Option) (*Raw10Decoder, error) {
	if width <= 0 || height <= 0 || width%raw10.SamplesPerBlock != 0 {
		return nil, fmt.Errorf("invalid RAW10 geometry %dx%d: width must be a positive multiple of %d", width, height, raw10.SamplesPerBlock)
	}
	d := &Raw10Decoder{
		width:    width,
		height:   height,
		stride:   width / raw10.SamplesPerBlock * raw10.BlockSize,
		unpacker: raw10.Unpacker{Expand: true},
	}
	for _, opt := range opts {
		opt(d)
	}
	if rowLen := d.rowLen(); d.stride < rowLen {
		return nil, fmt.Errorf("stride %d shorter than packed row of %d bytes", d.stride, rowLen)
	}
	d.samples = make([]uint16, width*height)
	return d, nil
}

func (d *Raw10Decoder) rowLen() int {
	return d.width / raw10.SamplesPerBlock * raw10.BlockSize
}

// FrameSize returns the number of packed bytes in one frame.
func (d *Raw10Decoder) FrameSize() int {
	return d.stride * d.height
}

func (d *Raw10Decoder) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Samples returns the unpacked samples of the most recent frame. The slice is
// reused by the next Write.
func (d *Raw10Decoder) Samples() []uint16 {
	return d.samples
}

// Ceiling returns the largest sample value the decoder can produce.
func (d *Raw10Decoder) Ceiling() uint16 {
	if d.unpacker.Expand {
		return raw10.MaxExpanded
	}
	return raw10.MaxSample
}

func (d *Raw10Decoder) ReadFrame() (image.Image, error) {
	if len(d.images) == 0 {
		return nil, ErrEAGAIN
	}
	img := d.images[0]
	d.images = d.images[1:]
	return img, nil
}

// Write decodes one packed frame and queues the resulting image.
func (d *Raw10Decoder) Write(pkt []byte) (int, error) {
	if len(pkt) != d.FrameSize() {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(pkt), d.FrameSize())
	}
	if rowLen := d.rowLen(); d.stride == rowLen {
		if err := d.unpacker.Unpack(d.samples, pkt); err != nil {
			return 0, err
		}
	} else if err := d.unpackRows(pkt); err != nil {
		return 0, err
	}

	gray := Mosaic(d.samples, d.width, d.height)
	if d.demosaic {
		d.images = append(d.images, bayer.Demosaic(gray, d.pattern))
	} else {
		d.images = append(d.images, gray)
	}
	return len(pkt), nil
}

// unpackRows unpacks a frame with padded rows. Rows are split into contiguous
// ranges, one per worker.
func (d *Raw10Decoder) unpackRows(pkt []byte) error {
	rowLen := d.rowLen()
	var g errgroup.Group
	for _, r := range rowRanges(d.height, d.unpacker.Workers) {
		g.Go(func() error {
			for y := r[0]; y < r[1]; y++ {
				row := pkt[y*d.stride : y*d.stride+rowLen]
				if err := raw10.UnpackInto(d.samples[y*d.width:(y+1)*d.width], row, d.unpacker.Expand); err != nil {
					return fmt.Errorf("row %d: %w", y, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// rowRanges splits height rows into at most workers contiguous [start, end) ranges.
// workers <= 0 uses one per CPU.
func rowRanges(height, workers int) [][2]int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, height)
	rowsPerWorker := (height + workers - 1) / workers

	ranges := make([][2]int, 0, workers)
	for startY := 0; startY < height; startY += rowsPerWorker {
		ranges = append(ranges, [2]int{startY, min(startY+rowsPerWorker, height)})
	}
	return ranges
}

func (d *Raw10Decoder) Close() error {
	return nil
}
