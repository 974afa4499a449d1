// Package pow implements the proof-of-work primitives consumed by the chain:
// compact difficulty bits, 256-bit targets, per-header work, and solution
// verification. Everything here is a pure function of its inputs.
package pow

import (
	"errors"
	"math/big"

	"github.com/Corvus-tech/corvus-spv/pkg/header"
	"github.com/Corvus-tech/corvus-spv/pkg/types"
)

// Verification errors.
var (
	ErrNegativeTarget   = errors.New("difficulty bits encode a zero or negative target")
	ErrTargetTooHigh    = errors.New("difficulty target above proof-of-work limit")
	ErrInsufficientWork = errors.New("header hash does not meet difficulty target")
)

// oneLsh256 is 2^256, used in the work calculation.
var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// CompactToBig converts a compact difficulty representation to a 256-bit
// target. The compact form packs a big number into 32 bits: the high byte
// is a base-256 exponent, bit 23 is a sign bit, and the low 23 bits are the
// mantissa.
func CompactToBig(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	negative := bits&0x00800000 != 0
	exponent := uint(bits >> 24)

	// Exponents of 3 or less shift the mantissa right; larger exponents
	// shift left by whole bytes.
	var n *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		n = big.NewInt(int64(mantissa))
	} else {
		n = big.NewInt(int64(mantissa))
		n.Lsh(n, 8*(exponent-3))
	}

	if negative {
		n.Neg(n)
	}
	return n
}

// BigToCompact converts a 256-bit target to its compact representation.
// The conversion is lossy: only the three most significant bytes of the
// value survive.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		// Shift down to the top three bytes.
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// A mantissa with the sign bit set must be shifted down a byte with
	// the exponent bumped to compensate.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CalcWork returns the expected number of hashes required to solve a block
// at the given difficulty: 2^256 / (target + 1). Invalid bits (zero or
// negative target) contribute zero work.
func CalcWork(bits uint32) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denom := new(big.Int).Add(target, big.NewInt(1))
	return new(big.Int).Div(oneLsh256, denom)
}

// HashToBig interprets a hash as a 256-bit big-endian integer.
func HashToBig(h types.Hash) *big.Int {
	return new(big.Int).SetBytes(h[:])
}

// WorkToBytes serializes a work value as a 256-bit big-endian array, the
// form stored on headers. Byte-wise comparison of two such arrays equals
// numeric comparison.
func WorkToBytes(w *big.Int) [32]byte {
	var out [32]byte
	w.FillBytes(out[:])
	return out
}

// BytesToWork parses a 256-bit big-endian work array.
func BytesToWork(b [32]byte) *big.Int {
	return new(big.Int).SetBytes(b[:])
}

// Verify checks that the header's stated difficulty bits are within the
// network limit and that its hash meets the encoded target.
func Verify(h *header.Header, powLimit *big.Int) error {
	target := CompactToBig(h.Bits)
	if target.Sign() <= 0 {
		return ErrNegativeTarget
	}
	if target.Cmp(powLimit) > 0 {
		return ErrTargetTooHigh
	}
	if HashToBig(h.Hash()).Cmp(target) > 0 {
		return ErrInsufficientWork
	}
	return nil
}
