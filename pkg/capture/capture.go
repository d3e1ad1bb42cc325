// Package capture writes sets of frames from several streams to disk.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("capture: unknown image format")

// Writer stores capture sets as <stream>_<index>.<ext> in Dir. 16-bit images keep
// their full depth in both formats.
type Writer struct {
	Dir string
	// Format is "png" or "tiff". Empty means png.
	Format string
}

func (w *Writer) ext() (string, error) {
	switch w.Format {
	case "", "png":
		return "png", nil
	case "tiff", "tif":
		return "tiff", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, w.Format)
}

// Path returns the file a stream's frame is written to for a capture index.
func (w *Writer) Path(name string, index int) (string, error) {
	ext, err := w.ext()
	if err != nil {
		return "", err
	}
	return filepath.Join(w.Dir, fmt.Sprintf("%s_%d.%s", name, index, ext)), nil
}

// WriteSet writes one image per stream and returns the paths written, ordered by
// stream name.
func (w *Writer) WriteSet(index int, frames map[string]image.Image) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, name := range slices.Sorted(maps.Keys(frames)) {
		p, err := w.Path(name, index)
		if err != nil {
			return paths, err
		}
		if err := w.writeFile(p, frames[name]); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (w *Writer) writeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if w.Format == "tiff" || w.Format == "tif" {
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	} else {
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

var indexPattern = regexp.MustCompile(`_(\d+)\.(png|tiff?)$`)

// NextIndex returns one past the highest capture index found in dir, or 1 when dir
// holds no captures.
func NextIndex(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	next := 1
	for _, e := range entries {
		m := indexPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if i, err := strconv.Atoi(m[1]); err == nil && i >= next {
			next = i + 1
		}
	}
	return next, nil
}

// Decode reads a PNG or TIFF file.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
