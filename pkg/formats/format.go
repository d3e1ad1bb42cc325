package formats

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kevmo314/go-raw10/pkg/bayer"
)

// Format is a pixel format GUID in USB video class wire layout: the FourCC
// followed by the fixed suffix 00000010-0080-AA00-3800-9B71.
type Format [16]byte

var ErrUnknownFormat = errors.New("unknown pixel format")

var guidSuffix = [12]byte{0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

var (
	FormatSRGGB10P = FromFourCC([4]byte{'p', 'R', 'A', 'A'})
	FormatSBGGR10P = FromFourCC([4]byte{'p', 'B', 'A', 'A'})
	FormatSGRBG10P = FromFourCC([4]byte{'p', 'g', 'A', 'A'})
	FormatSGBRG10P = FromFourCC([4]byte{'p', 'G', 'A', 'A'})
	FormatY10P     = FromFourCC([4]byte{'Y', '1', '0', 'P'})
)

var patterns = map[Format]bayer.Pattern{
	FormatSRGGB10P: bayer.RGGB,
	FormatSBGGR10P: bayer.BGGR,
	FormatSGRBG10P: bayer.GRBG,
	FormatSGBRG10P: bayer.GBRG,
}

// FromFourCC returns the format GUID for a FourCC.
func FromFourCC(fourcc [4]byte) Format {
	var f Format
	copy(f[:4], fourcc[:])
	copy(f[4:], guidSuffix[:])
	return f
}

// FourCC returns the FourCC code, or an error if f is not FourCC based.
func (f Format) FourCC() ([4]byte, error) {
	if [12]byte(f[4:]) != guidSuffix {
		return [4]byte{}, fmt.Errorf("%w: %s is not a FourCC GUID", ErrUnknownFormat, f)
	}
	return [4]byte(f[:4]), nil
}

// UUID returns the GUID with its first three fields in big-endian order, as it is
// conventionally printed.
func (f Format) UUID() uuid.UUID {
	u := uuid.UUID(f)
	u[0], u[1], u[2], u[3] = f[3], f[2], f[1], f[0]
	u[4], u[5] = f[5], f[4]
	u[6], u[7] = f[7], f[6]
	return u
}

func (f Format) String() string {
	return f.UUID().String()
}

// Pattern returns the Bayer pattern of a packed 10-bit Bayer format.
func (f Format) Pattern() (bayer.Pattern, bool) {
	p, ok := patterns[f]
	return p, ok
}

// IsRAW10 reports whether f is a known packed 10-bit format.
func (f Format) IsRAW10() bool {
	_, ok := patterns[f]
	return ok || f == FormatY10P
}

// Parse accepts a four character code such as "pRAA" or a GUID string.
func Parse(s string) (Format, error) {
	if len(s) == 4 {
		return FromFourCC([4]byte{s[0], s[1], s[2], s[3]}), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Format{}, fmt.Errorf("%w: %q: %v", ErrUnknownFormat, s, err)
	}
	f := Format(u)
	f[0], f[1], f[2], f[3] = u[3], u[2], u[1], u[0]
	f[4], f[5] = u[5], u[4]
	f[6], f[7] = u[7], u[6]
	return f, nil
}

// ForPattern returns the packed 10-bit format for a Bayer pattern.
func ForPattern(p bayer.Pattern) Format {
	for f, fp := range patterns {
		if fp == p {
			return f
		}
	}
	return FormatY10P
}
