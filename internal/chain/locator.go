package chain

import (
	"github.com/Corvus-tech/corvus-spv/pkg/types"
)

// Locator builds a sparse list of best-chain hashes for sync requests.
// The first entry is the tip. Heights step backward with stride 1 for the
// first ten entries after the tip, then the stride doubles every entry.
// The list never exceeds the configured cap, and the final slot of a
// full list is forced to genesis so peers always share at least one point.
func (c *Chain) Locator() []types.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()

	max := c.params.MaxLocatorHashes
	hashes := make([]types.Hash, 0, max)
	hashes = append(hashes, c.tip.Hash())

	height := int64(c.height)
	step := int64(1)

	for height > 0 {
		height -= step
		if height < 0 {
			height = 0
		}

		if len(hashes) > 10 {
			step *= 2
		}

		if len(hashes) == max-1 {
			height = 0
		}

		hdr := c.heights[uint64(height)]
		if hdr == nil {
			// heights is contiguous from genesis to tip.
			break
		}
		hashes = append(hashes, hdr.Hash())
	}

	return hashes
}
