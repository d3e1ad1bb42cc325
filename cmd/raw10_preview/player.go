package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/kevmo314/go-raw10/pkg/capture"
	"github.com/kevmo314/go-raw10/pkg/preview"
)

// streamView holds the newest frame of one stream. It is written by the stream's
// reader goroutine and read by the game loop.
type streamView struct {
	name    string
	full    atomic.Value // image.Image
	preview atomic.Pointer[image.RGBA]

	// owned by the game loop
	shown   *image.RGBA
	texture *ebiten.Image
}

func (v *streamView) update(img image.Image, scale float64) {
	v.full.Store(img)
	v.preview.Store(preview.Scale(img, scale))
}

// Player shows every stream side by side. C captures the newest frame of every
// stream, Q or Escape quits. The window closes with the error of the first stream
// that fails.
type Player struct {
	// ctx is done once a stream fails; wait returns that stream's error.
	ctx  context.Context
	wait func() error

	views         []*streamView
	writer        *capture.Writer
	index         int
	width, height int
}

func (p *Player) Update() error {
	if err := p.streamErr(); err != nil {
		return err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		p.capture()
	}
	return nil
}

func (p *Player) streamErr() error {
	if p.ctx == nil || p.ctx.Err() == nil {
		return nil
	}
	if err := p.wait(); err != nil {
		return fmt.Errorf("stream failed: %w", err)
	}
	return ebiten.Termination
}

func (p *Player) capture() {
	frames := make(map[string]image.Image, len(p.views))
	for _, v := range p.views {
		img, ok := v.full.Load().(image.Image)
		if !ok {
			log.Printf("capture skipped: no frame from %s yet", v.name)
			return
		}
		frames[v.name] = img
	}
	paths, err := p.writer.WriteSet(p.index, frames)
	if err != nil {
		log.Printf("capture %d failed: %v", p.index, err)
		return
	}
	log.Printf("captured set %d: %v", p.index, paths)
	p.index++
}

func (p *Player) Draw(screen *ebiten.Image) {
	for i, v := range p.views {
		frame := v.preview.Load()
		if frame == nil {
			continue
		}
		if frame != v.shown {
			if v.texture == nil || v.texture.Bounds().Size() != frame.Bounds().Size() {
				v.texture = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
			}
			v.texture.WritePixels(frame.Pix)
			v.shown = frame
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(i*p.width), 0)
		screen.DrawImage(v.texture, op)
	}
}

func (p *Player) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.width * len(p.views), p.height
}
