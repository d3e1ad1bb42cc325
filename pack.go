package raw10

import "fmt"

// PackBlock packs four 10-bit samples into a 5-byte block. Bits above the low ten
// are dropped.
func PackBlock(dst []byte, src []uint16) {
	dst = dst[:BlockSize:BlockSize]
	src = src[:SamplesPerBlock:SamplesPerBlock]
	dst[0] = byte(src[0] >> 2)
	dst[1] = byte(src[1] >> 2)
	dst[2] = byte(src[2] >> 2)
	dst[3] = byte(src[3] >> 2)
	dst[4] = byte(src[0]&0x3) | byte(src[1]&0x3)<<2 | byte(src[2]&0x3)<<4 | byte(src[3]&0x3)<<6
}

// Pack packs src into dst, which must hold exactly 5*len(src)/4 bytes. Every sample
// must fit in 10 bits.
func Pack(dst []byte, src []uint16) error {
	n, err := PackedLen(len(src))
	if err != nil {
		return err
	}
	if len(dst) != n {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrSizeMismatch, len(dst), n)
	}
	for i, v := range src {
		if v > MaxSample {
			return fmt.Errorf("%w: sample %d is %d", ErrSampleRange, i, v)
		}
	}
	for i, j := 0, 0; j < len(src); i, j = i+BlockSize, j+SamplesPerBlock {
		PackBlock(dst[i:], src[j:])
	}
	return nil
}

// PackValues packs src into a newly allocated slice.
func PackValues(src []uint16) ([]byte, error) {
	n, err := PackedLen(len(src))
	if err != nil {
		return nil, err
	}
	dst := make([]byte, n)
	if err := Pack(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}
