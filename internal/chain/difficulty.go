package chain

import (
	"fmt"
	"math/big"

	"github.com/Corvus-tech/corvus-spv/internal/pow"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// CalcNextBits returns the difficulty bits required of a child of prev
// carrying the given timestamp. Exposed for sync drivers and miners that
// need to predict the next requirement.
func (c *Chain) CalcNextBits(timestamp uint64, prev *header.Header) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextBits(timestamp, prev)
}

// nextBits computes the required difficulty for a header with the given
// timestamp whose parent is prev. prev == nil is the genesis case.
//
// Callers must hold c.mu.
func (c *Chain) nextBits(timestamp uint64, prev *header.Header) (uint32, error) {
	if prev == nil {
		return c.params.PowLimitBits, nil
	}

	if c.params.NoRetargeting {
		return c.params.PowLimitBits, nil
	}

	if c.params.TargetReset {
		// Testnet rule: allow a difficulty drop when blocks stall.
		if timestamp > prev.Timestamp+2*uint64(c.params.TargetSpacing.Seconds()) {
			return c.params.PowLimitBits, nil
		}
	}

	return c.retarget(prev)
}

// retarget computes the next difficulty from a windowed average of recent
// targets, scaled by a damped, clamped measure of how fast the window was
// produced. All intermediate arithmetic is arbitrary precision: the sum of
// a full window of 256-bit targets does not fit fixed-width registers.
//
// Callers must hold c.mu.
func (c *Chain) retarget(prev *header.Header) (uint32, error) {
	window := c.params.TargetWindow
	timespan := int64(c.params.TargetTimespan.Seconds())
	minActual := int64(c.params.MinActual.Seconds())
	maxActual := int64(c.params.MaxActual.Seconds())

	// Sum the targets of the last window headers, walking back from prev.
	sum := new(big.Int)
	last := prev
	first := last
	for i := 0; first != nil && i < window; i++ {
		sum.Add(sum, pow.CompactToBig(first.Bits))
		first = c.hashes[first.PrevHash]
	}
	if first == nil {
		// Not enough history for a full window.
		return c.params.PowLimitBits, nil
	}

	avgTarget := sum.Div(sum, big.NewInt(int64(window)))

	start := c.medianTimePast(first)
	end := c.medianTimePast(last)
	diff := end - start

	// Damped adjustment: move a quarter of the way from the ideal
	// timespan toward the observed one.
	actual := timespan + (diff-timespan)/4
	if actual < 0 {
		// Median time past is near-monotonic; a negative damped timespan
		// means the stored timestamps violate the chain's invariants.
		return 0, fmt.Errorf("%w: negative retarget timespan %d", ErrChainCorrupt, actual)
	}
	if actual < minActual {
		actual = minActual
	}
	if actual > maxActual {
		actual = maxActual
	}

	target := avgTarget.Mul(avgTarget, big.NewInt(actual))
	target.Div(target, big.NewInt(timespan))

	if target.Cmp(c.params.PowLimit) > 0 {
		return c.params.PowLimitBits, nil
	}
	return pow.BigToCompact(target), nil
}
