package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
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
	flag.Func("stream", "stream to show as name=path; path is a dump file or a directory of .raw frames (repeatable)", func(s string) error {
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
	scale := flag.Float64("scale", 0.5, "preview scale")
	fps := flag.Float64("fps", 30, "playback rate per stream")
	captureDir := flag.String("capture-dir", "calib_data", "directory for captured frames")
	imageFormat := flag.String("image-format", "png", "capture format, png or tiff")
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
	if *fps <= 0 {
		log.Fatalf("Invalid -fps %v", *fps)
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
	opts := []decode.Option{decode.WithWorkers(*workers)}
	if *stride > 0 {
		opts = append(opts, decode.WithStride(*stride))
	}

	index, err := capture.NextIndex(*captureDir)
	if err != nil {
		log.Fatalf("Failed to scan capture directory: %v", err)
	}

	views := make([]*streamView, len(streams))
	decoders := make([]*decode.SourceDecoder, len(streams))
	for i, st := range streams {
		dec, err := decode.NewFormatDecoder(f, *width, *height, opts...)
		if err != nil {
			log.Fatalf("Failed to create decoder: %v", err)
		}
		src, err := source.Open(st.path, dec.FrameSize())
		if err != nil {
			log.Fatalf("Failed to open stream %s: %v", st.name, err)
		}
		decoders[i] = decode.NewSourceDecoder(source.Loop(src), dec)
		views[i] = &streamView{name: st.name}
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	interval := time.Duration(float64(time.Second) / *fps)
	for i := range streams {
		g.Go(func() error {
			defer decoders[i].Close()
			return play(ctx, decoders[i], views[i], *scale, interval)
		})
	}

	p := &Player{
		ctx:    ctx,
		wait:   g.Wait,
		views:  views,
		writer: &capture.Writer{Dir: *captureDir, Format: *imageFormat},
		index:  index,
		width:  max(1, int(float64(*width)**scale)),
		height: max(1, int(float64(*height)**scale)),
	}

	ebiten.SetWindowTitle("RAW10 preview: " + strings.Join(p.names(), ", "))
	ebiten.SetWindowSize(p.width*len(views), p.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	runErr := ebiten.RunGame(p)

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Stream failed: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatalf("ebiten error: %v", runErr)
	}
}

// play decodes frames from dec at the given interval until ctx is done.
func play(ctx context.Context, dec *decode.SourceDecoder, v *streamView, scale float64, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastLog time.Time
	var frameCount int
	for {
		img, err := dec.ReadFrame()
		if err != nil {
			return fmt.Errorf("stream %s: %w", v.name, err)
		}
		v.update(img, scale)

		frameCount++
		if time.Since(lastLog) >= 5*time.Second {
			log.Printf("Stream %s: %d frames decoded", v.name, frameCount)
			frameCount = 0
			lastLog = time.Now()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Player) names() []string {
	names := make([]string, len(p.views))
	for i, v := range p.views {
		names[i] = v.name
	}
	return names
}
