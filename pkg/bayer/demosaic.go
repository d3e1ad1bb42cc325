// Package bayer converts 16-bit Bayer mosaics to color images.
package bayer

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
)

var ErrBounds = errors.New("bayer: destination bounds do not match source")

// Demosaic interpolates src into a new RGBA64 image of the same bounds.
func Demosaic(src *image.Gray16, p Pattern) *image.RGBA64 {
	dst := image.NewRGBA64(src.Bounds())
	demosaicParallel(dst, src, p, runtime.NumCPU())
	return dst
}

// DemosaicInto interpolates src into dst. Both images must have the same size.
// Missing channels are bilinear averages of the nearest sites of that color; sites
// past the edge are mirrored back into the image.
func DemosaicInto(dst *image.RGBA64, src *image.Gray16, p Pattern) error {
	if dst.Bounds().Size() != src.Bounds().Size() {
		return fmt.Errorf("%w: %v != %v", ErrBounds, dst.Bounds().Size(), src.Bounds().Size())
	}
	demosaicParallel(dst, src, p, runtime.NumCPU())
	return nil
}

func demosaicParallel(dst *image.RGBA64, src *image.Gray16, p Pattern, numWorkers int) {
	h := src.Bounds().Dy()
	if h == 0 || src.Bounds().Dx() == 0 {
		return
	}
	rowsPerWorker := (h + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := min(startY+rowsPerWorker, h)
		if startY >= h {
			break
		}

		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			demosaicRows(dst, src, p, startY, endY)
		}(startY, endY)
	}
	wg.Wait()
}

// mirror reflects an out-of-range coordinate back into [0, n), keeping its parity
// where the image is large enough.
func mirror(v, n int) int {
	if v < 0 {
		v = -v
	} else if v >= n {
		v = 2*(n-1) - v
	}
	return max(0, min(v, n-1))
}

func demosaicRows(dst *image.RGBA64, src *image.Gray16, p Pattern, startY, endY int) {
	sb, db := src.Bounds(), dst.Bounds()
	w, h := sb.Dx(), sb.Dy()
	base := src.PixOffset(sb.Min.X, sb.Min.Y)

	px := func(x, y int) uint32 {
		i := base + mirror(y, h)*src.Stride + mirror(x, w)*2
		return uint32(src.Pix[i])<<8 | uint32(src.Pix[i+1])
	}

	for y := startY; y < endY; y++ {
		di := dst.PixOffset(db.Min.X, db.Min.Y+y)
		for x := 0; x < w; x++ {
			var rgb [3]uint32
			switch c := p.ColorAt(x, y); c {
			case Green:
				rgb[Green] = px(x, y)
				rgb[p.ColorAt(x+1, y)] = (px(x-1, y) + px(x+1, y)) / 2
				rgb[p.ColorAt(x, y+1)] = (px(x, y-1) + px(x, y+1)) / 2
			default:
				rgb[c] = px(x, y)
				rgb[Green] = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
				rgb[Red+Blue-c] = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
			}

			s := dst.Pix[di : di+8 : di+8]
			s[0], s[1] = uint8(rgb[Red]>>8), uint8(rgb[Red])
			s[2], s[3] = uint8(rgb[Green]>>8), uint8(rgb[Green])
			s[4], s[5] = uint8(rgb[Blue]>>8), uint8(rgb[Blue])
			s[6], s[7] = 0xff, 0xff
			di += 8
		}
	}
}
