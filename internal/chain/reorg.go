package chain

import (
	"fmt"

	"github.com/Corvus-tech/corvus-spv/internal/log"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// reorganize re-links height-indexed chain membership when competitor,
// known to carry strictly more cumulative work than the current tip,
// displaces it. The admission pipeline has already established that
// competitor does not simply extend the tip.
//
// The walks collect owned slices of headers; admitted headers are never
// mutated. Both walks complete before any table changes, so a corrupted
// walk leaves the store untouched. Headers leaving the best chain stay in
// the hash table; only height membership changes. Installing the
// competitor itself and moving the tip is the caller's job.
//
// Callers must hold c.mu.
func (c *Chain) reorganize(competitor *header.Header) error {
	tip := c.tip

	fork, err := c.findFork(tip, competitor)
	if err != nil {
		return err
	}

	// Headers losing best-chain membership: tip back to the fork point.
	var disconnect []*header.Header
	for entry := tip; !entry.Equal(fork); {
		disconnect = append(disconnect, entry)
		entry = c.hashes[entry.PrevHash]
		if entry == nil {
			return fmt.Errorf("%w: disconnect walk ran off known history", ErrChainCorrupt)
		}
	}

	// Headers gaining membership: competitor back to the fork point,
	// collected newest first.
	var connect []*header.Header
	for entry := competitor; !entry.Equal(fork); {
		connect = append(connect, entry)
		entry = c.hashes[entry.PrevHash]
		if entry == nil {
			return fmt.Errorf("%w: connect walk ran off known history", ErrChainCorrupt)
		}
	}

	for _, h := range disconnect {
		delete(c.heights, h.Height)
	}

	// Walk from the fork point toward the competitor, skipping the
	// competitor itself (connect[0]); the admission pipeline installs it
	// along with the new tip.
	for i := len(connect) - 1; i >= 1; i-- {
		h := connect[i]
		c.heights[h.Height] = h
	}

	log.Chain.Info().
		Str("fork", fork.Hash().String()).
		Uint64("fork_height", fork.Height).
		Int("disconnected", len(disconnect)).
		Int("connected", len(connect)).
		Msg("chain reorganized")

	return nil
}
