package preview

import "fmt"

// Summary describes the sample distribution of one frame.
type Summary struct {
	Count     int
	Min, Max  uint16
	Mean      float64
	Saturated int // samples equal to the ceiling passed to Stats
}

// Stats summarizes samples. ceiling is the largest representable sample, 1023 for
// unshifted RAW10 or 65472 when expanded.
func Stats(samples []uint16, ceiling uint16) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(samples), Min: samples[0], Max: samples[0]}
	var sum uint64
	for _, v := range samples {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		if v >= ceiling {
			s.Saturated++
		}
		sum += uint64(v)
	}
	s.Mean = float64(sum) / float64(len(samples))
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%d max=%d mean=%.1f saturated=%d", s.Count, s.Min, s.Max, s.Mean, s.Saturated)
}
