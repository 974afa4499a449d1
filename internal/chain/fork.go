package chain

import (
	"fmt"

	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// findFork locates the common ancestor of two chain tips. The deeper
// candidate is walked back until both sit at equal height, then both step
// back together until they meet. Running off the end of known history
// before meeting means the tables are disconnected, which the invariants
// forbid.
//
// Callers must hold c.mu.
func (c *Chain) findFork(a, b *header.Header) (*header.Header, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: fork search from nil header", ErrChainCorrupt)
	}

	for !a.Equal(b) {
		for b.Height > a.Height {
			b = c.hashes[b.PrevHash]
			if b == nil {
				return nil, fmt.Errorf("%w: fork walk ran off known history", ErrChainCorrupt)
			}
		}

		if a.Equal(b) {
			return a, nil
		}

		a = c.hashes[a.PrevHash]
		if a == nil {
			return nil, fmt.Errorf("%w: fork walk ran off known history", ErrChainCorrupt)
		}
	}

	return a, nil
}
