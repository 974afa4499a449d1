// Package chain implements the header-chain state machine: genesis
// bootstrap, header admission, difficulty retargeting, fork detection, and
// chain reorganization. It is the trust root of the client; peer sync and
// lookups above it depend on its chain selection being correct.
package chain

import (
	"sync"

	"github.com/Corvus-tech/corvus-spv/config"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
	"github.com/Corvus-tech/corvus-spv/pkg/types"
)

// Chain tracks every known header and the currently selected best chain.
//
// Four tables back the state. hashes owns every admitted non-orphan header,
// main chain and side chains alike. heights is a view of exactly the
// headers on the best chain, contiguous from genesis to the tip. orphans
// owns headers whose parent is unknown, and prevs indexes each orphan by
// the parent hash it is waiting for.
//
// The design assumes one admission in flight at a time; the mutex makes
// the public surface safe if a driver violates that, but concurrent
// admission is not part of the contract.
type Chain struct {
	mu     sync.Mutex
	params *config.Params

	height  uint64
	tip     *header.Header
	genesis *header.Header

	hashes  map[types.Hash]*header.Header
	heights map[uint64]*header.Header
	orphans map[types.Hash]*header.Header

	// prevs holds a single orphan per missing-parent hash. A later orphan
	// naming the same parent replaces the earlier one.
	prevs map[types.Hash]*header.Header
}

// New creates a chain for the given network and seeds it from the embedded
// genesis header.
func New(params *config.Params) (*Chain, error) {
	if params == nil {
		return nil, ErrBadArguments
	}

	c := &Chain{
		params:  params,
		hashes:  make(map[types.Hash]*header.Header),
		heights: make(map[uint64]*header.Header),
		orphans: make(map[types.Hash]*header.Header),
		prevs:   make(map[types.Hash]*header.Header),
	}

	if err := c.initGenesis(); err != nil {
		return nil, err
	}
	return c, nil
}

// Close releases the chain's tables and clears the tip and genesis
// references. The chain must not be used afterwards.
func (c *Chain) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hashes = nil
	c.heights = nil
	c.orphans = nil
	c.prevs = nil
	c.tip = nil
	c.genesis = nil
	c.height = 0
}

// Params returns the consensus parameters the chain follows.
func (c *Chain) Params() *config.Params {
	return c.params
}

// Height returns the height of the current best chain.
func (c *Chain) Height() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Tip returns the header at the head of the current best chain.
func (c *Chain) Tip() *header.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tip
}

// Genesis returns the fixed height-0 header.
func (c *Chain) Genesis() *header.Header {
	return c.genesis
}

// ByHash looks up an admitted header (main chain or side chain) by hash.
func (c *Chain) ByHash(hash types.Hash) *header.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hashes[hash]
}

// ByHeight looks up the best-chain header at the given height.
func (c *Chain) ByHeight(height uint64) *header.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.heights[height]
}

// Orphan looks up a stored orphan header by hash.
func (c *Chain) Orphan(hash types.Hash) *header.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orphans[hash]
}

// OrphanByPrev returns the orphan waiting for the given parent hash, if
// any. Sync drivers use this to re-submit an orphan once its parent has
// been admitted; the chain itself never promotes orphans.
func (c *Chain) OrphanByPrev(parent types.Hash) *header.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prevs[parent]
}

// OrphanCount returns the number of stored orphan headers.
func (c *Chain) OrphanCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.orphans)
}

// HeaderCount returns the number of admitted non-orphan headers.
func (c *Chain) HeaderCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hashes)
}
