// Package preview prepares decoded frames for display.
package preview

import (
	"image"

	"golang.org/x/image/draw"
)

// Scale resizes img by factor using approximate bilinear filtering. The result
// is at least one pixel in each dimension.
func Scale(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Fit scales img down to fit within w x h, keeping its aspect ratio.
func Fit(img image.Image, w, h int) *image.RGBA {
	b := img.Bounds()
	factor := min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	return Scale(img, min(factor, 1))
}

// To8Bit converts img to 8 bits per channel by dropping the low byte.
func To8Bit(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
