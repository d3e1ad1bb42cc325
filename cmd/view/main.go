package main

import (
	"flag"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/kevmo314/go-raw10/pkg/capture"
	"github.com/kevmo314/go-raw10/pkg/preview"
)

type Display struct {
	frame *ebiten.Image
}

func (d *Display) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (d *Display) Draw(screen *ebiten.Image) {
	screen.DrawImage(d.frame, &ebiten.DrawImageOptions{})
}

func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return d.frame.Bounds().Dx(), d.frame.Bounds().Dy()
}

func main() {
	path := flag.String("path", "", "PNG or TIFF image to show")
	maxWidth := flag.Int("max-width", 1280, "largest window width")
	maxHeight := flag.Int("max-height", 800, "largest window height")
	flag.Parse()

	img, err := capture.Decode(*path)
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}
	log.Printf("%s: %T %dx%d", *path, img, img.Bounds().Dx(), img.Bounds().Dy())
	if g, ok := img.(*image.Gray16); ok {
		log.Printf("16-bit grayscale, stride %d", g.Stride)
	}

	fit := preview.Fit(img, *maxWidth, *maxHeight)
	d := &Display{frame: ebiten.NewImageFromImage(fit)}

	ebiten.SetWindowTitle(*path)
	ebiten.SetWindowSize(fit.Bounds().Dx(), fit.Bounds().Dy())
	if err := ebiten.RunGame(d); err != nil {
		log.Fatalf("ebiten error: %v", err)
	}
}
