package chain

import (
	"encoding/hex"
	"fmt"

	"github.com/Corvus-tech/corvus-spv/internal/pow"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// initGenesis decodes the network's embedded genesis header and seeds the
// chain with it. The blob is a build-time constant, so a decode failure is
// a configuration error, not untrusted input.
func (c *Chain) initGenesis() error {
	raw, err := hex.DecodeString(c.params.GenesisHex)
	if err != nil {
		return fmt.Errorf("decode genesis hex: %w", err)
	}

	gen := &header.Header{}
	if err := gen.Decode(raw); err != nil {
		return fmt.Errorf("decode genesis header: %w", err)
	}

	// Genesis has no parent; its cumulative work is its own contribution.
	gen.Height = 0
	gen.Work = pow.WorkToBytes(pow.CalcWork(gen.Bits))

	c.hashes[gen.Hash()] = gen
	c.heights[0] = gen
	c.height = 0
	c.tip = gen
	c.genesis = gen
	return nil
}
