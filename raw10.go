// Package raw10 unpacks MIPI RAW10 pixel data.
//
// RAW10 stores four 10-bit samples in five bytes. Bytes 0-3 hold the eight most
// significant bits of samples 0-3 and byte 4 holds the two least significant bits
// of each sample, sample 0 in bits 0-1 through sample 3 in bits 6-7.
package raw10

import (
	"errors"
	"fmt"
)

const (
	// BlockSize is the number of packed bytes holding one group of samples.
	BlockSize = 5
	// SamplesPerBlock is the number of samples in one packed block.
	SamplesPerBlock = 4
	// MaxSample is the largest 10-bit sample value.
	MaxSample = 1<<10 - 1
	// ExpandShift moves a 10-bit sample to the top of a 16-bit word.
	ExpandShift = 6
	// MaxExpanded is the largest sample value produced with expansion.
	MaxExpanded = MaxSample << ExpandShift
)

var (
	ErrInvalidLength = errors.New("raw10: packed length is not a positive multiple of 5")
	ErrSizeMismatch  = errors.New("raw10: output length does not match input")
	ErrSampleRange   = errors.New("raw10: sample exceeds 10 bits")
)

// UnpackedLen returns the number of samples held in n packed bytes.
func UnpackedLen(n int) (int, error) {
	if n <= 0 || n%BlockSize != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return n / BlockSize * SamplesPerBlock, nil
}

// PackedLen returns the number of bytes needed to pack n samples.
func PackedLen(n int) (int, error) {
	if n <= 0 || n%SamplesPerBlock != 0 {
		return 0, fmt.Errorf("%w: %d samples", ErrInvalidLength, n)
	}
	return n / SamplesPerBlock * BlockSize, nil
}

func shiftFor(expand bool) uint {
	if expand {
		return ExpandShift
	}
	return 0
}

// UnpackBlock unpacks one 5-byte block of src into the first four elements of dst.
// With expand set every sample is shifted to occupy bits 15..6.
func UnpackBlock(dst []uint16, src []byte, expand bool) {
	unpackBlock(dst, src, shiftFor(expand))
}

// unpackBlock shifts each sample left by shift, which must be 0 or ExpandShift.
func unpackBlock(dst []uint16, src []byte, shift uint) {
	dst = dst[:SamplesPerBlock:SamplesPerBlock]
	src = src[:BlockSize:BlockSize]
	lo := src[4]
	dst[0] = (uint16(src[0])<<2 | uint16(lo&0x3)) << shift
	dst[1] = (uint16(src[1])<<2 | uint16(lo>>2&0x3)) << shift
	dst[2] = (uint16(src[2])<<2 | uint16(lo>>4&0x3)) << shift
	dst[3] = (uint16(src[3])<<2 | uint16(lo>>6)) << shift
}

// unpackBlocks unpacks every block of src into dst. Lengths are not checked.
func unpackBlocks(dst []uint16, src []byte, shift uint) {
	for i, j := 0, 0; i < len(src); i, j = i+BlockSize, j+SamplesPerBlock {
		unpackBlock(dst[j:], src[i:], shift)
	}
}

// Unpack unpacks src into a newly allocated slice. With expand set every sample is
// shifted to occupy bits 15..6.
func Unpack(src []byte, expand bool) ([]uint16, error) {
	n, err := UnpackedLen(len(src))
	if err != nil {
		return nil, err
	}
	dst := make([]uint16, n)
	unpackBlocks(dst, src, shiftFor(expand))
	return dst, nil
}

// UnpackInto unpacks src into dst, which must hold exactly 4*len(src)/5 samples.
// Nothing is written on error.
func UnpackInto(dst []uint16, src []byte, expand bool) error {
	n, err := UnpackedLen(len(src))
	if err != nil {
		return err
	}
	if len(dst) != n {
		return fmt.Errorf("%w: have %d samples, want %d", ErrSizeMismatch, len(dst), n)
	}
	unpackBlocks(dst, src, shiftFor(expand))
	return nil
}
