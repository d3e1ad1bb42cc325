package capture

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testImages() map[string]image.Image {
	rgb := image.NewRGBA64(image.Rect(0, 0, 3, 2))
	rgb.SetRGBA64(1, 1, color.RGBA64{R: 65472, G: 64, B: 1000 << 6, A: 0xffff})
	gray := image.NewGray16(image.Rect(0, 0, 3, 2))
	gray.SetGray16(2, 0, color.Gray16{Y: 1023 << 6})
	return map[string]image.Image{"rgb": rgb, "left": gray}
}

func TestWriteSet(t *testing.T) {
	for _, format := range []string{"png", "tiff"} {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "calib_data")
			w := &Writer{Dir: dir, Format: format}
			frames := testImages()

			paths, err := w.WriteSet(3, frames)
			if err != nil {
				t.Fatalf("WriteSet failed: %v", err)
			}
			want := []string{filepath.Join(dir, "left_3."+format), filepath.Join(dir, "rgb_3."+format)}
			if diff := cmp.Diff(want, paths); diff != "" {
				t.Fatalf("paths mismatch (-want +got):\n%s", diff)
			}

			img, err := Decode(paths[1])
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			r, g, b, _ := img.At(1, 1).RGBA()
			if r != 65472 || g != 64 || b != 1000<<6 {
				t.Errorf("At(1, 1) = %d %d %d, want 65472 64 %d", r, g, b, 1000<<6)
			}

			img, err = Decode(paths[0])
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if y := color.Gray16Model.Convert(img.At(2, 0)).(color.Gray16).Y; y != 1023<<6 {
				t.Errorf("At(2, 0) = %d, want %d", y, 1023<<6)
			}

			next, err := NextIndex(dir)
			if err != nil {
				t.Fatalf("NextIndex failed: %v", err)
			}
			if next != 4 {
				t.Errorf("NextIndex() = %d, want 4", next)
			}
		})
	}
}

func TestWriteSet_UnknownFormat(t *testing.T) {
	w := &Writer{Dir: t.TempDir(), Format: "bmp"}
	if _, err := w.WriteSet(1, testImages()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("WriteSet error = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestNextIndex(t *testing.T) {
	if next, err := NextIndex(filepath.Join(t.TempDir(), "missing")); err != nil || next != 1 {
		t.Errorf("NextIndex(missing) = %d, %v, want 1, nil", next, err)
	}

	dir := t.TempDir()
	for _, name := range []string{"rgb_2.png", "left_12.tiff", "notes_99.txt", "right.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if next, err := NextIndex(dir); err != nil || next != 13 {
		t.Errorf("NextIndex() = %d, %v, want 13, nil", next, err)
	}
}
