package workerpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
)

func TestPartitionCoversRangeExactlyOnce(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for workers := 1; workers <= 12; workers++ {
			spans := workerpool.Partition(total, workers)

			covered := make([]int, total)
			next := 0
			minLen, maxLen := total+1, -1
			for i, span := range spans {
				assert.Equal(t, i, span.Index)
				assert.Equal(t, next, span.Offset, "spans must be contiguous")
				for j := span.Offset; j < span.End(); j++ {
					covered[j]++
				}
				next = span.End()
				minLen = min(minLen, span.Length)
				maxLen = max(maxLen, span.Length)
			}

			assert.Equal(t, total, next)
			for idx, c := range covered {
				require.Equalf(t, 1, c, "index %d covered %d times (total=%d workers=%d)", idx, c, total, workers)
			}
			if len(spans) > 0 {
				assert.LessOrEqual(t, maxLen-minLen, 1)
				assert.Greater(t, minLen, 0)
			}
		}
	}
}

func TestPartitionGivesRemainderToFirstSpans(t *testing.T) {
	spans := workerpool.Partition(10, 4)
	lengths := make([]int, len(spans))
	for i, s := range spans {
		lengths[i] = s.Length
	}
	assert.Equal(t, []int{3, 3, 2, 2}, lengths)
}

func TestPartitionEmptyTotal(t *testing.T) {
	assert.Empty(t, workerpool.Partition(0, 4))
	assert.Empty(t, workerpool.Partition(-3, 4))
}

func TestClampWorkers(t *testing.T) {
	cases := []struct {
		name             string
		total, requested int
		want             int
	}{
		{"within bounds", 10, 4, 4},
		{"more workers than units", 3, 10, 3},
		{"zero workers", 10, 0, 1},
		{"negative workers", 10, -2, 1},
		{"nothing to do", 0, 4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, workerpool.ClampWorkers(tc.total, tc.requested))
		})
	}
}

func TestSuggestWorkers(t *testing.T) {
	assert.Equal(t, 1, workerpool.SuggestWorkers(0, 8))
	assert.Equal(t, 3, workerpool.SuggestWorkers(10, 8))
	assert.Equal(t, 8, workerpool.SuggestWorkers(10000, 8))
}
