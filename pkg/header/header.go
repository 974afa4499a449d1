// Package header defines the block header record tracked by the light client.
// The client never sees transaction bodies; a header plus its cumulative work
// is the complete unit of chain data.
package header

import (
	"encoding/binary"
	"fmt"

	"github.com/Corvus-tech/corvus-spv/pkg/crypto"
	"github.com/Corvus-tech/corvus-spv/pkg/types"
)

// Size is the encoded size of a header in bytes.
// Format: version(4) | prev_hash(32) | merkle_root(32) | timestamp(8) | bits(4) | nonce(8)
const Size = 88

// Header contains block metadata.
//
// Version through Nonce are wire identity. Height and Work are assigned by
// the chain on admission and never serialized.
type Header struct {
	Version    uint32     `json:"version"`
	PrevHash   types.Hash `json:"prev_hash"`
	MerkleRoot types.Hash `json:"merkle_root"`
	Timestamp  uint64     `json:"timestamp"`
	Bits       uint32     `json:"bits"`
	Nonce      uint64     `json:"nonce"`

	// Height is the block height, assigned on admission (genesis = 0).
	Height uint64 `json:"height,omitempty"`

	// Work is the cumulative chain work from genesis through this header,
	// as a 256-bit big-endian value. Byte-wise comparison equals numeric
	// comparison, so chains are ordered with bytes.Compare.
	Work [32]byte `json:"-"`

	cachedHash types.Hash
	hashed     bool
}

// Encode returns the canonical wire bytes of the header.
func (h *Header) Encode() []byte {
	buf := make([]byte, 0, Size)
	buf = binary.LittleEndian.AppendUint32(buf, h.Version)
	buf = append(buf, h.PrevHash[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, h.Timestamp)
	buf = binary.LittleEndian.AppendUint32(buf, h.Bits)
	buf = binary.LittleEndian.AppendUint64(buf, h.Nonce)
	return buf
}

// Decode parses wire bytes into the header. Height, Work, and the hash
// cache are reset.
func (h *Header) Decode(data []byte) error {
	if len(data) != Size {
		return fmt.Errorf("header must be %d bytes, got %d", Size, len(data))
	}
	h.Version = binary.LittleEndian.Uint32(data[0:4])
	copy(h.PrevHash[:], data[4:36])
	copy(h.MerkleRoot[:], data[36:68])
	h.Timestamp = binary.LittleEndian.Uint64(data[68:76])
	h.Bits = binary.LittleEndian.Uint32(data[76:80])
	h.Nonce = binary.LittleEndian.Uint64(data[80:88])
	h.Height = 0
	h.Work = [32]byte{}
	h.hashed = false
	return nil
}

// Hash returns the header hash, computing and caching it on first use.
// The cache is never recomputed; wire fields are immutable once a header
// has been admitted.
func (h *Header) Hash() types.Hash {
	if !h.hashed {
		h.cachedHash = crypto.Hash(h.Encode())
		h.hashed = true
	}
	return h.cachedHash
}

// Clone returns an owned copy of the header. The chain clones every
// candidate before validation so external aliasing cannot mutate chain
// state afterwards.
func (h *Header) Clone() *Header {
	c := *h
	return &c
}

// Equal reports whether two headers have the same hash.
func (h *Header) Equal(other *Header) bool {
	return other != nil && h.Hash() == other.Hash()
}
