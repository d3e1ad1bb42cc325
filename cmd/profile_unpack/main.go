package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	raw10 "github.com/kevmo314/go-raw10"
	"github.com/kevmo314/go-raw10/pkg/bayer"
	"github.com/kevmo314/go-raw10/pkg/decode"
)

func main() {
	width := flag.Int("width", 1920, "frame width")
	height := flag.Int("height", 1200, "frame height")
	frames := flag.Int("frames", 100, "frames to profile")
	workers := flag.Int("workers", 0, "unpack workers (0 = one per CPU)")
	var pattern bayer.Pattern
	flag.Var(&pattern, "pattern", "bayer pattern for demosaic")
	flag.Parse()

	size, err := raw10.PackedLen(*width * *height)
	if err != nil {
		log.Fatalf("Invalid geometry %dx%d: %v", *width, *height, err)
	}

	src := make([]byte, size)
	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	for i := range src {
		src[i] = byte(r.UintN(256))
	}
	dst := make([]uint16, *width**height)

	log.Printf("Profiling %d frames of %dx%d (%s packed)...\n", *frames, *width, *height, humanize.IBytes(uint64(size)))

	var totalSeq, totalPar, totalMosaic, totalDemosaic time.Duration

	start := time.Now()

	for i := 0; i < *frames; i++ {
		// Time single goroutine unpack
		t0 := time.Now()
		if err := raw10.UnpackInto(dst, src, true); err != nil {
			log.Fatalf("UnpackInto failed: %v", err)
		}
		totalSeq += time.Since(t0)

		// Time parallel unpack
		t1 := time.Now()
		if err := raw10.UnpackParallel(dst, src, true, *workers); err != nil {
			log.Fatalf("UnpackParallel failed: %v", err)
		}
		totalPar += time.Since(t1)

		// Time reshape into a 16-bit image
		t2 := time.Now()
		gray := decode.Mosaic(dst, *width, *height)
		totalMosaic += time.Since(t2)

		// Time demosaic
		t3 := time.Now()
		bayer.Demosaic(gray, pattern)
		totalDemosaic += time.Since(t3)
	}

	elapsed := time.Since(start)
	n := time.Duration(*frames)

	fmt.Println("\n=== Profile Results ===")
	fmt.Printf("Total time: %v for %d frames\n", elapsed, *frames)
	fmt.Printf("Effective FPS: %.2f\n\n", float64(*frames)/elapsed.Seconds())

	fmt.Printf("Unpack (1 goroutine):\n")
	fmt.Printf("  Total: %v, Avg: %v, %s/s\n", totalSeq, totalSeq/n, throughput(size, *frames, totalSeq))
	fmt.Printf("Unpack (parallel):\n")
	fmt.Printf("  Total: %v, Avg: %v, %s/s\n", totalPar, totalPar/n, throughput(size, *frames, totalPar))
	fmt.Printf("  Speedup: %.2fx\n", float64(totalSeq)/float64(totalPar))
	fmt.Printf("\nMosaic reshape:\n")
	fmt.Printf("  Total: %v, Avg: %v\n", totalMosaic, totalMosaic/n)
	fmt.Printf("\nDemosaic (%s):\n", pattern)
	fmt.Printf("  Total: %v, Avg: %v\n", totalDemosaic, totalDemosaic/n)

	fmt.Println("\n=== Breakdown (parallel pipeline) ===")
	total := totalPar + totalMosaic + totalDemosaic
	fmt.Printf("Unpack:   %.1f%%\n", float64(totalPar)/float64(total)*100)
	fmt.Printf("Mosaic:   %.1f%%\n", float64(totalMosaic)/float64(total)*100)
	fmt.Printf("Demosaic: %.1f%%\n", float64(totalDemosaic)/float64(total)*100)
}

func throughput(size, frames int, d time.Duration) string {
	if d <= 0 {
		return "inf B"
	}
	return humanize.IBytes(uint64(float64(size*frames) / d.Seconds()))
}
