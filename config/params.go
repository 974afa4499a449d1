// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Consensus parameters: fixed per network, must match across all nodes
//   - Node settings: runtime configuration, can vary per node
package config

import (
	"math/big"
	"time"
)

// NetworkType identifies which network the node follows.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Simnet  NetworkType = "simnet"
)

// Params holds the consensus parameters for one network. These are
// build-time constants; every node on a network must agree on them.
type Params struct {
	Name NetworkType

	// GenesisHex is the embedded raw genesis header (hex of the 88-byte
	// wire encoding). Decoded once at chain initialization.
	GenesisHex string

	// PowLimitBits is the base difficulty in compact form. It is both the
	// easiest allowed target and the value retargeting falls back to.
	PowLimitBits uint32

	// PowLimit is the proof-of-work ceiling as a 256-bit target, derived
	// from PowLimitBits.
	PowLimit *big.Int

	// TargetSpacing is the desired interval between blocks.
	TargetSpacing time.Duration

	// TargetWindow is the number of headers averaged by a retarget.
	TargetWindow int

	// TargetTimespan is TargetWindow * TargetSpacing.
	TargetTimespan time.Duration

	// MinActual and MaxActual clamp the damped timespan used by a
	// retarget, limiting per-window difficulty swings.
	MinActual time.Duration
	MaxActual time.Duration

	// NoRetargeting keeps difficulty pinned at PowLimitBits. Simnet only.
	NoRetargeting bool

	// TargetReset allows a difficulty drop back to PowLimitBits when a
	// block arrives more than 2*TargetSpacing after its parent. Testnet
	// only; keeps the chain moving when miners leave.
	TargetReset bool

	// MaxFutureSkew is how far ahead of local time a header timestamp
	// may be before it is rejected.
	MaxFutureSkew time.Duration

	// MedianTimeSpan is the number of headers sampled (self included) by
	// the median-time-past calculation.
	MedianTimeSpan int

	// MaxLocatorHashes caps the number of hashes in a block locator.
	MaxLocatorHashes int
}

func baseParams(name NetworkType, genesisHex string, powLimitBits uint32) *Params {
	const (
		spacing = 10 * time.Minute
		window  = 144
	)
	timespan := window * spacing
	return &Params{
		Name:             name,
		GenesisHex:       genesisHex,
		PowLimitBits:     powLimitBits,
		PowLimit:         compactToTarget(powLimitBits),
		TargetSpacing:    spacing,
		TargetWindow:     window,
		TargetTimespan:   timespan,
		MinActual:        timespan / 4,
		MaxActual:        timespan * 4,
		MaxFutureSkew:    2 * time.Hour,
		MedianTimeSpan:   11,
		MaxLocatorHashes: 64,
	}
}

// MainnetParams returns the consensus parameters for mainnet.
func MainnetParams() *Params {
	return baseParams(Mainnet, genesisMainnet, 0x1c00ffff)
}

// TestnetParams returns the consensus parameters for testnet.
// Testnet allows a temporary difficulty reset when blocks stall.
func TestnetParams() *Params {
	p := baseParams(Testnet, genesisTestnet, 0x1d00ffff)
	p.TargetReset = true
	return p
}

// SimnetParams returns the consensus parameters for local simulation
// networks. Difficulty never retargets so test setups stay predictable.
func SimnetParams() *Params {
	p := baseParams(Simnet, genesisSimnet, 0x207fffff)
	p.NoRetargeting = true
	return p
}

// ParamsFor returns the consensus parameters for the given network.
func ParamsFor(network NetworkType) *Params {
	switch network {
	case Testnet:
		return TestnetParams()
	case Simnet:
		return SimnetParams()
	default:
		return MainnetParams()
	}
}

// compactToTarget expands compact difficulty bits into a target. This
// mirrors pow.CompactToBig; config cannot import internal/pow (config is
// the leaf package), so the expansion is duplicated for the ceiling only.
func compactToTarget(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	exponent := uint(bits >> 24)
	var n *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		n = big.NewInt(int64(mantissa))
	} else {
		n = big.NewInt(int64(mantissa))
		n.Lsh(n, 8*(exponent-3))
	}
	if bits&0x00800000 != 0 {
		n.Neg(n)
	}
	return n
}
