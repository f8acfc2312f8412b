package workerpool

import (
	"math"
)

// Span is one contiguous slice [Offset, Offset+Length) of a partitioned range.
type Span struct {
	Index  int `json:"index"`
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the exclusive upper bound of the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// ClampWorkers bounds workers to [1, total]. A zero or negative total needs no workers.
func ClampWorkers(total, workers int) int {
	if total <= 0 {
		return 0
	}
	if workers < 1 {
		return 1
	}
	if workers > total {
		return total
	}
	return workers
}

// Partition splits [0, total) into contiguous, ordered spans, one per worker.
// The first total%workers spans are one unit longer than the rest.
func Partition(total, workers int) []Span {
	workers = ClampWorkers(total, workers)
	if workers == 0 {
		return nil
	}

	base, rem := total/workers, total%workers
	spans := make([]Span, workers)
	offset := 0
	for i := range spans {
		length := base
		if i < rem {
			length++
		}
		spans[i] = Span{Index: i, Offset: offset, Length: length}
		offset += length
	}
	return spans
}

// SuggestWorkers computes a worker count from the task count: sqrt(total),
// limited between 1 and max.
func SuggestWorkers(total, max int) int {
	if total <= 0 {
		return 1
	}
	if max < 1 {
		max = 1
	}
	return int(math.Max(1, math.Min(float64(max), math.Sqrt(float64(total)))))
}
