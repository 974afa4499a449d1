package chain

import (
	"sort"

	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// medianTimePast computes the median timestamp of prev and up to ten of
// its direct ancestors. The walk stops early when an ancestor is missing;
// genesis always terminates it, so fewer than the full window of samples
// is normal near the start of the chain. Returns 0 when prev is nil.
//
// Callers must hold c.mu.
func (c *Chain) medianTimePast(prev *header.Header) int64 {
	if prev == nil {
		return 0
	}

	samples := make([]int64, 0, c.params.MedianTimeSpan)
	for i := 0; i < c.params.MedianTimeSpan && prev != nil; i++ {
		samples = append(samples, int64(prev.Timestamp))
		prev = c.hashes[prev.PrevHash]
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return samples[len(samples)/2]
}
