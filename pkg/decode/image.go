package decode

import "image"

// Mosaic reshapes row-major samples into a 16-bit grayscale image.
func Mosaic(samples []uint16, width, height int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	pix := img.Pix[:2*width*height]
	for i, v := range samples[:width*height] {
		pix[2*i] = uint8(v >> 8)
		pix[2*i+1] = uint8(v)
	}
	return img
}

// Samples flattens a 16-bit grayscale image back into row-major samples.
func Samples(img *image.Gray16) []uint16 {
	b := img.Bounds()
	out := make([]uint16, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			out = append(out, uint16(img.Pix[i])<<8|uint16(img.Pix[i+1]))
			i += 2
		}
	}
	return out
}
