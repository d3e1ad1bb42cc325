package bayer

import (
	"errors"
	"fmt"
	"strings"
)

// Channel is a color channel of a color filter array site.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	}
	return fmt.Sprintf("Channel(%d)", uint8(c))
}

// Pattern names the colors of the top-left 2x2 cell of a Bayer mosaic, row-major.
type Pattern uint8

const (
	RGGB Pattern = iota
	BGGR
	GRBG
	GBRG
)

var ErrUnknownPattern = errors.New("unknown bayer pattern")

var cells = [...][2][2]Channel{
	RGGB: {{Red, Green}, {Green, Blue}},
	BGGR: {{Blue, Green}, {Green, Red}},
	GRBG: {{Green, Red}, {Blue, Green}},
	GBRG: {{Green, Blue}, {Red, Green}},
}

var names = [...]string{
	RGGB: "RGGB",
	BGGR: "BGGR",
	GRBG: "GRBG",
	GBRG: "GBRG",
}

func (p Pattern) String() string {
	if int(p) < len(names) {
		return names[p]
	}
	return fmt.Sprintf("Pattern(%d)", uint8(p))
}

// ColorAt returns the channel sampled at (x, y) relative to the mosaic origin.
func (p Pattern) ColorAt(x, y int) Channel {
	return cells[p][y&1][x&1]
}

// ParsePattern parses a pattern name such as "rggb", case-insensitively.
func ParsePattern(s string) (Pattern, error) {
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// Set implements flag.Value.
func (p *Pattern) Set(s string) error {
	v, err := ParsePattern(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
