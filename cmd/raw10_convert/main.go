package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kevmo314/go-raw10/pkg/bayer"
	"github.com/kevmo314/go-raw10/pkg/capture"
	"github.com/kevmo314/go-raw10/pkg/decode"
	"github.com/kevmo314/go-raw10/pkg/formats"
	"github.com/kevmo314/go-raw10/pkg/source"
	"golang.org/x/sync/errgroup"
)

type stream struct {
	name, path string
}

func parseStream(s string) (stream, error) {
	name, path, ok := strings.Cut(s, "=")
	if !ok {
		path = s
		name = strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
	}
	if name == "" || path == "" {
		return stream{}, fmt.Errorf("invalid stream %q, want name=path", s)
	}
	return stream{name: name, path: path}, nil
}

func main() {
	var streams []stream
	flag.Func("stream", "stream to convert as name=path; path is a dump file or a directory of .raw frames (repeatable)", func(s string) error {
		st, err := parseStream(s)
		if err != nil {
			return err
		}
		streams = append(streams, st)
		return nil
	})
	width := flag.Int("width", 1920, "frame width")
	height := flag.Int("height", 1200, "frame height")
	stride := flag.Int("stride", 0, "bytes per packed row (0 = width*5/4)")
	format := flag.String("format", "pgAA", "pixel format FourCC or GUID")
	pattern := flag.String("pattern", "", "override the bayer pattern of -format")
	rawMosaic := flag.Bool("raw", false, "write the 16-bit mosaic without demosaicing")
	expand := flag.Bool("expand", true, "shift samples to the top of each 16-bit value")
	out := flag.String("out", "out", "output directory")
	imageFormat := flag.String("image-format", "png", "png or tiff")
	frames := flag.Int("frames", 0, "frames per stream to convert (0 = all)")
	workers := flag.Int("workers", 0, "unpack workers per frame (0 = one per CPU)")
	flag.Parse()

	for _, arg := range flag.Args() {
		st, err := parseStream(arg)
		if err != nil {
			log.Fatal(err)
		}
		streams = append(streams, st)
	}
	if len(streams) == 0 {
		log.Fatal("No streams given")
	}

	f, err := formats.Parse(*format)
	if err != nil {
		log.Fatalf("Failed to parse format: %v", err)
	}
	if *pattern != "" {
		p, err := bayer.ParsePattern(*pattern)
		if err != nil {
			log.Fatalf("Failed to parse pattern: %v", err)
		}
		f = formats.ForPattern(p)
	}
	opts := []decode.Option{decode.WithExpand(*expand), decode.WithWorkers(*workers)}
	if *stride > 0 {
		opts = append(opts, decode.WithStride(*stride))
	}
	if *rawMosaic {
		opts = append(opts, decode.WithMosaic())
	}

	w := &capture.Writer{Dir: *out, Format: *imageFormat}

	g, ctx := errgroup.WithContext(context.Background())
	for _, st := range streams {
		g.Go(func() error {
			n, err := convert(ctx, st, w, f, *width, *height, *frames, opts)
			if err != nil {
				return fmt.Errorf("stream %s: %w", st.name, err)
			}
			log.Printf("Stream %s: converted %d frames", st.name, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func convert(ctx context.Context, st stream, w *capture.Writer, f formats.Format, width, height, limit int, opts []decode.Option) (int, error) {
	dec, err := decode.NewFormatDecoder(f, width, height, opts...)
	if err != nil {
		return 0, err
	}
	src, err := source.Open(st.path, dec.FrameSize())
	if err != nil {
		return 0, err
	}
	sd := decode.NewSourceDecoder(src, dec)
	defer sd.Close()

	log.Printf("Stream %s: %s, %s per frame", st.name, st.path, humanize.IBytes(uint64(dec.FrameSize())))

	n := 0
	for limit == 0 || n < limit {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		img, err := sd.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
		n++
		if _, err := w.WriteSet(n, map[string]image.Image{st.name: img}); err != nil {
			return n, err
		}
	}
	return n, nil
}
