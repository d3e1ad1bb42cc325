package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/kevmo314/go-raw10/pkg/bayer"
	"github.com/kevmo314/go-raw10/pkg/decode"
	"github.com/kevmo314/go-raw10/pkg/formats"
	"github.com/kevmo314/go-raw10/pkg/preview"
	"github.com/kevmo314/go-raw10/pkg/source"
	"github.com/rivo/tview"
)

type Display struct {
	frame atomic.Value
}

func (g *Display) Update() error {
	return nil
}

func (g *Display) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.frame.Load().(*ebiten.Image), &ebiten.DrawImageOptions{})
}

func (g *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	frame := g.frame.Load().(*ebiten.Image)
	return frame.Bounds().Dx(), frame.Bounds().Dy()
}

// seekSource is a source with random access to its frames.
type seekSource interface {
	source.Source
	Seek(i int) error
}

func main() {
	path := flag.String("path", "", "dump file or directory of .raw frames")
	glob := flag.String("glob", "*.raw", "frame file pattern when -path is a directory")
	width := flag.Int("width", 1920, "frame width")
	height := flag.Int("height", 1200, "frame height")
	stride := flag.Int("stride", 0, "bytes per packed row (0 = width*5/4)")
	format := flag.String("format", "pgAA", "pixel format FourCC or GUID")
	pattern := flag.String("pattern", "", "override the bayer pattern of -format")
	expand := flag.Bool("expand", false, "shift samples to the top of each 16-bit value")
	render := flag.Bool("render", false, "render the frames to a window (requires a display)")
	flag.Parse()

	f, err := formats.Parse(*format)
	if err != nil {
		panic(err)
	}
	if *pattern != "" {
		p, err := bayer.ParsePattern(*pattern)
		if err != nil {
			panic(err)
		}
		f = formats.ForPattern(p)
	}
	opts := []decode.Option{decode.WithExpand(*expand)}
	if *stride > 0 {
		opts = append(opts, decode.WithStride(*stride))
	}
	dec, err := decode.NewFormatDecoder(f, *width, *height, opts...)
	if err != nil {
		panic(err)
	}

	var src seekSource
	var titles []string
	if fi, err := os.Stat(*path); err == nil && fi.IsDir() {
		ds, err := source.OpenDir(*path, *glob)
		if err != nil {
			panic(err)
		}
		for _, p := range ds.Paths() {
			titles = append(titles, filepath.Base(p))
		}
		src = ds
	} else {
		fs, err := source.OpenFile(*path, dec.FrameSize())
		if err != nil {
			panic(err)
		}
		for i := 0; i < fs.NumFrames(); i++ {
			titles = append(titles, fmt.Sprintf("Frame %d", i))
		}
		src = fs
	}
	defer src.Close()

	app := tview.NewApplication()

	frames := tview.NewList()
	frames.SetBorder(true).SetTitle("Frames")

	info := tview.NewTextView()
	info.SetBorder(true).SetTitle("Format")
	fmt.Fprintf(info, "%s\n%dx%d\n%s per frame\n", f, *width, *height, humanize.IBytes(uint64(dec.FrameSize())))
	if p, ok := f.Pattern(); ok {
		fmt.Fprintf(info, "Bayer %s\n", p)
	}

	previewImage := tview.NewImage()
	previewImage.SetColors(256).SetDithering(tview.DitheringNone).SetBorder(true).SetTitle("Preview")

	logText := tview.NewTextView()
	logText.SetMaxLines(10).SetBorder(true).SetTitle("Log")

	log.SetOutput(logText)

	var g *Display
	if *render {
		g = &Display{}
	}

	for i, title := range titles {
		frames.AddItem(title, "", 0, func() {
			img, err := readFrame(src, dec, i)
			if err != nil {
				log.Printf("error reading frame %d: %s", i, err)
				return
			}
			log.Printf("%s: %s", title, preview.Stats(dec.Samples(), dec.Ceiling()))
			if g != nil {
				if g.frame.Swap(ebiten.NewImageFromImage(preview.To8Bit(img))) == nil {
					go func() {
						if err := ebiten.RunGame(g); err != nil {
							log.Printf("ebiten error: %s", err)
						}
					}()
				}
				return
			}
			w := 64
			h := img.Bounds().Dy() * w / img.Bounds().Dx()
			previewImage.SetImage(preview.Fit(img, w, h))
		})
	}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	// Create the layout.

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(frames, 0, 3, true).
		AddItem(info, 6, 0, false)

	flex := tview.NewFlex().AddItem(left, 0, 1, true)
	if !*render {
		flex.AddItem(previewImage, 0, 3, false)
	}

	if err := app.SetRoot(tview.NewFlex().SetDirection(tview.FlexRow).AddItem(flex, 0, 1, true).AddItem(logText, 10, 0, false), true).Run(); err != nil {
		panic(err)
	}
}

func readFrame(src seekSource, dec *decode.Raw10Decoder, i int) (image.Image, error) {
	if err := src.Seek(i); err != nil {
		return nil, err
	}
	buf, err := src.ReadFrame()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Write(buf); err != nil {
		return nil, err
	}
	return dec.ReadFrame()
}
