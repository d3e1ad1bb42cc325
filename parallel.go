package raw10

import (
	"fmt"
	"runtime"
	"sync"
)

// minBlocksPerWorker keeps tiny inputs on the calling goroutine.
const minBlocksPerWorker = 1024

// UnpackParallel behaves like UnpackInto but splits the blocks into contiguous
// chunks unpacked concurrently. workers <= 0 uses one worker per CPU. All workers
// have finished when it returns.
func UnpackParallel(dst []uint16, src []byte, expand bool, workers int) error {
	n, err := UnpackedLen(len(src))
	if err != nil {
		return err
	}
	if len(dst) != n {
		return fmt.Errorf("%w: have %d samples, want %d", ErrSizeMismatch, len(dst), n)
	}
	unpackChunks(dst, src, shiftFor(expand), workers, minBlocksPerWorker)
	return nil
}

func unpackChunks(dst []uint16, src []byte, shift uint, workers, minBlocks int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	blocks := len(src) / BlockSize
	if minBlocks < 1 {
		minBlocks = 1
	}
	if w := blocks / minBlocks; w < workers {
		workers = max(w, 1)
	}
	if workers == 1 {
		unpackBlocks(dst, src, shift)
		return
	}

	blocksPerWorker := (blocks + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * blocksPerWorker
		end := min(start+blocksPerWorker, blocks)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			unpackBlocks(dst[start*SamplesPerBlock:end*SamplesPerBlock], src[start*BlockSize:end*BlockSize], shift)
		}(start, end)
	}
	wg.Wait()
}

// Unpacker holds unpacking options for repeated use.
type Unpacker struct {
	// Expand shifts samples to the top of each 16-bit word.
	Expand bool
	// Workers bounds the number of goroutines. Zero uses one per CPU and one
	// disables parallelism.
	Workers int
}

// Unpack unpacks src into dst using the configured options.
func (u *Unpacker) Unpack(dst []uint16, src []byte) error {
	if u.Workers == 1 {
		return UnpackInto(dst, src, u.Expand)
	}
	return UnpackParallel(dst, src, u.Expand, u.Workers)
}
