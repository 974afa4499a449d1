package chain

import (
	"bytes"
	"math/big"
	"time"

	"github.com/Corvus-tech/corvus-spv/internal/log"
	"github.com/Corvus-tech/corvus-spv/internal/pow"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// Add validates a candidate header and drives the store to a new
// consistent state. The candidate is cloned first, so callers keep no
// aliases into chain state.
//
// A nil return means the header was admitted: extended or replaced the
// best chain, stored on a side chain, or stored as an orphan awaiting its
// parent. Rejections return one of the sentinel errors in this package or
// a proof-of-work error from the pow package, and leave the store exactly
// as it was.
func (c *Chain) Add(h *header.Header) error {
	if h == nil {
		return ErrBadArguments
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	hdr := h.Clone()
	hash := hdr.Hash()

	log.Chain.Debug().Str("hash", hash.String()).Msg("adding header")

	skew := uint64(c.params.MaxFutureSkew.Seconds())
	if hdr.Timestamp > uint64(time.Now().Unix())+skew {
		log.Chain.Debug().Str("hash", hash.String()).Msg("rejected: time-too-new")
		return ErrTimeTooNew
	}

	if _, ok := c.hashes[hash]; ok {
		log.Chain.Debug().Str("hash", hash.String()).Msg("rejected: duplicate")
		return ErrDuplicate
	}

	if _, ok := c.orphans[hash]; ok {
		log.Chain.Debug().Str("hash", hash.String()).Msg("rejected: duplicate-orphan")
		return ErrDuplicateOrphan
	}

	if err := pow.Verify(hdr, c.params.PowLimit); err != nil {
		log.Chain.Debug().Str("hash", hash.String()).Err(err).Msg("rejected: proof of work")
		return err
	}

	prev, ok := c.hashes[hdr.PrevHash]
	if !ok {
		// Parent unknown. Store the orphan; timing and difficulty checks
		// need the parent, so they wait until a driver re-submits it.
		c.orphans[hash] = hdr
		c.prevs[hdr.PrevHash] = hdr
		log.Chain.Debug().
			Str("hash", hash.String()).
			Str("prev", hdr.PrevHash.String()).
			Msg("stored as orphan")
		return nil
	}

	if int64(hdr.Timestamp) <= c.medianTimePast(prev) {
		log.Chain.Debug().Str("hash", hash.String()).Msg("rejected: time-too-old")
		return ErrTimeTooOld
	}

	bits, err := c.nextBits(hdr.Timestamp, prev)
	if err != nil {
		return err
	}
	if hdr.Bits != bits {
		log.Chain.Debug().
			Str("hash", hash.String()).
			Uint32("got", hdr.Bits).
			Uint32("want", bits).
			Msg("rejected: bad-diffbits")
		return ErrBadDiffBits
	}

	hdr.Height = prev.Height + 1
	work := new(big.Int).Add(pow.BytesToWork(prev.Work), pow.CalcWork(hdr.Bits))
	hdr.Work = pow.WorkToBytes(work)

	if bytes.Compare(hdr.Work[:], c.tip.Work[:]) <= 0 {
		// Not heavier than the current tip: side-chain storage only.
		c.hashes[hash] = hdr
		log.Chain.Debug().
			Str("hash", hash.String()).
			Uint64("height", hdr.Height).
			Msg("stored on alternate chain")
		return nil
	}

	if hdr.PrevHash != c.tip.Hash() {
		log.Chain.Info().Str("hash", hash.String()).Msg("reorganizing")
		if err := c.reorganize(hdr); err != nil {
			return err
		}
	}

	c.hashes[hash] = hdr
	c.heights[hdr.Height] = hdr
	c.height = hdr.Height
	c.tip = hdr

	log.Chain.Info().
		Str("hash", hash.String()).
		Uint64("height", hdr.Height).
		Msg("added to main chain")
	return nil
}
