package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	raw10 "github.com/kevmo314/go-raw10"
	"github.com/kevmo314/go-raw10/pkg/formats"
	"github.com/kevmo314/go-raw10/pkg/source"
)

func rampSamples(n int) []uint16 {
	s := make([]uint16, n)
	for i := range s {
		s[i] = uint16(i * 37 % (raw10.MaxSample + 1))
	}
	return s
}

func packRows(t *testing.T, samples []uint16, width, stride int) []byte {
	t.Helper()
	var buf []byte
	for y := 0; y*width < len(samples); y++ {
		row, err := raw10.PackValues(samples[y*width : (y+1)*width])
		if err != nil {
			t.Fatalf("PackValues failed: %v", err)
		}
		buf = append(buf, row...)
		buf = append(buf, make([]byte, stride-len(row))...)
	}
	return buf
}

func TestRaw10Decoder_Mosaic(t *testing.T) {
	const w, h = 8, 3
	samples := rampSamples(w * h)

	d, err := NewRaw10Decoder(w, h, WithExpand(false))
	if err != nil {
		t.Fatalf("NewRaw10Decoder failed: %v", err)
	}
	if _, err := d.ReadFrame(); err != ErrEAGAIN {
		t.Fatalf("ReadFrame error = %v, want %v", err, ErrEAGAIN)
	}
	if n, err := d.Write(packRows(t, samples, w, 10)); err != nil || n != 30 {
		t.Fatalf("Write = %d, %v, want 30, nil", n, err)
	}
	img, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	gray, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("ReadFrame returned %T, want *image.Gray16", img)
	}
	if diff := cmp.Diff(samples, Samples(gray)); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if got := gray.Gray16At(1, 0).Y; got != 37 {
		t.Errorf("Gray16At(1, 0) = %d, want 37", got)
	}
	if diff := cmp.Diff(samples, d.Samples()); diff != "" {
		t.Errorf("Samples() mismatch (-want +got):\n%s", diff)
	}
	if got := d.Ceiling(); got != raw10.MaxSample {
		t.Errorf("Ceiling() = %d, want %d", got, raw10.MaxSample)
	}
	if _, err := d.ReadFrame(); err != ErrEAGAIN {
		t.Errorf("ReadFrame error = %v, want %v", err, ErrEAGAIN)
	}
}

func TestRaw10Decoder_Stride(t *testing.T) {
	const w, h, stride = 4, 4, 8
	samples := rampSamples(w * h)

	d, err := NewRaw10Decoder(w, h, WithStride(stride))
	if err != nil {
		t.Fatalf("NewRaw10Decoder failed: %v", err)
	}
	if d.FrameSize() != stride*h {
		t.Fatalf("FrameSize() = %d, want %d", d.FrameSize(), stride*h)
	}
	if _, err := d.Write(packRows(t, samples, w, stride)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	img, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	want := make([]uint16, len(samples))
	for i, v := range samples {
		want[i] = v << raw10.ExpandShift
	}
	if diff := cmp.Diff(want, Samples(img.(*image.Gray16))); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestRaw10Decoder_StrideWorkers(t *testing.T) {
	const w, h, stride = 8, 16, 14
	samples := rampSamples(w * h)
	pkt := packRows(t, samples, w, stride)
	for y := 0; y < h; y++ {
		for i := y*stride + 10; i < (y+1)*stride; i++ {
			pkt[i] = 0xff
		}
	}

	want := make([]uint16, len(samples))
	for i, v := range samples {
		want[i] = v << raw10.ExpandShift
	}
	for _, workers := range []int{1, 2, 7, 16} {
		d, err := NewRaw10Decoder(w, h, WithStride(stride), WithWorkers(workers))
		if err != nil {
			t.Fatalf("NewRaw10Decoder failed: %v", err)
		}
		if _, err := d.Write(pkt); err != nil {
			t.Fatalf("Write with %d workers failed: %v", workers, err)
		}
		img, err := d.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		if diff := cmp.Diff(want, Samples(img.(*image.Gray16))); diff != "" {
			t.Errorf("samples with %d workers mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestRowRanges(t *testing.T) {
	for _, tc := range []struct {
		height, workers, want int
	}{
		{16, 1, 1},
		{16, 2, 2},
		{16, 7, 6},
		{16, 16, 16},
		{16, 32, 16},
		{3, 7, 3},
	} {
		ranges := rowRanges(tc.height, tc.workers)
		if len(ranges) != tc.want {
			t.Errorf("rowRanges(%d, %d) = %d ranges, want %d", tc.height, tc.workers, len(ranges), tc.want)
		}
		next := 0
		for _, r := range ranges {
			if r[0] != next || r[1] <= r[0] {
				t.Errorf("rowRanges(%d, %d) = %v, not contiguous", tc.height, tc.workers, ranges)
				break
			}
			next = r[1]
		}
		if next != tc.height {
			t.Errorf("rowRanges(%d, %d) covers %d rows, want %d", tc.height, tc.workers, next, tc.height)
		}
	}
}

func TestRaw10Decoder_WrongSize(t *testing.T) {
	d, err := NewRaw10Decoder(8, 2)
	if err != nil {
		t.Fatalf("NewRaw10Decoder failed: %v", err)
	}
	if _, err := d.Write(make([]byte, 19)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("Write error = %v, want %v", err, ErrFrameSize)
	}
}

func TestNewRaw10Decoder_InvalidGeometry(t *testing.T) {
	if _, err := NewRaw10Decoder(6, 2); err == nil {
		t.Error("NewRaw10Decoder(6, 2) succeeded, want error")
	}
	if _, err := NewRaw10Decoder(8, 2, WithStride(9)); err == nil {
		t.Error("NewRaw10Decoder with short stride succeeded, want error")
	}
}

func TestNewFormatDecoder_Demosaic(t *testing.T) {
	const w, h = 4, 4
	samples := make([]uint16, w*h)
	for i := range samples {
		samples[i] = 500
	}
	d, err := NewFormatDecoder(formats.FormatSGRBG10P, w, h, WithExpand(false))
	if err != nil {
		t.Fatalf("NewFormatDecoder failed: %v", err)
	}
	if _, err := d.Write(packRows(t, samples, w, 5)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	img, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	rgba, ok := img.(*image.RGBA64)
	if !ok {
		t.Fatalf("ReadFrame returned %T, want *image.RGBA64", img)
	}
	if got := rgba.RGBA64At(2, 1); got != (color.RGBA64{R: 500, G: 500, B: 500, A: 0xffff}) {
		t.Errorf("RGBA64At(2, 1) = %v, want {500 500 500 65535}", got)
	}

	d, err = NewFormatDecoder(formats.FormatSGRBG10P, w, h, WithMosaic())
	if err != nil {
		t.Fatalf("NewFormatDecoder failed: %v", err)
	}
	if _, err := d.Write(packRows(t, samples, w, 5)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if img, _ := d.ReadFrame(); img == nil {
		t.Fatal("ReadFrame returned nil image")
	} else if _, ok := img.(*image.Gray16); !ok {
		t.Errorf("ReadFrame with WithMosaic returned %T, want *image.Gray16", img)
	}
}

func TestNewFormatDecoder_Unsupported(t *testing.T) {
	yuy2 := formats.FromFourCC([4]byte{'Y', 'U', 'Y', '2'})
	if _, err := NewFormatDecoder(yuy2, 4, 4); !errors.Is(err, formats.ErrUnknownFormat) {
		t.Errorf("NewFormatDecoder(YUY2) error = %v, want %v", err, formats.ErrUnknownFormat)
	}
}

func TestSourceDecoder(t *testing.T) {
	const w, h = 4, 2
	a := rampSamples(w * h)
	b := make([]uint16, w*h)
	for i := range b {
		b[i] = raw10.MaxSample
	}
	dump := append(packRows(t, a, w, 5), packRows(t, b, w, 5)...)

	dec, err := NewRaw10Decoder(w, h, WithExpand(false), WithWorkers(1))
	if err != nil {
		t.Fatalf("NewRaw10Decoder failed: %v", err)
	}
	src, err := source.NewReaderSource(bytes.NewReader(dump), dec.FrameSize())
	if err != nil {
		t.Fatalf("NewReaderSource failed: %v", err)
	}
	sd := NewSourceDecoder(src, dec)
	defer sd.Close()

	for _, want := range [][]uint16{a, b} {
		img, err := sd.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		if diff := cmp.Diff(want, Samples(img.(*image.Gray16))); diff != "" {
			t.Errorf("frame mismatch (-want +got):\n%s", diff)
		}
	}
	if _, err := sd.ReadFrame(); err != io.EOF {
		t.Errorf("ReadFrame error = %v, want %v", err, io.EOF)
	}
}

func TestMosaicSamplesRoundTrip(t *testing.T) {
	s := rampSamples(12)
	img := Mosaic(s, 4, 3)
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("Bounds() = %v, want (0,0)-(4,3)", img.Bounds())
	}
	if diff := cmp.Diff(s, Samples(img)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
