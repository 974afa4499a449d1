package config

// Raw genesis headers, one per network. Layout matches the header wire
// format: version(4) | prev_hash(32) | merkle_root(32) | timestamp(8) |
// bits(4) | nonce(8), all integers little-endian.
//
// Each genesis has a zero previous hash, a zero merkle root (no
// transactions are tracked by this client), the network's base difficulty
// bits, and a fixed launch timestamp.
const (
	// Mainnet: 2020-02-14 00:00:00 UTC, bits 0x1c00ffff.
	genesisMainnet = "01000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"00e3455e00000000" +
		"ffff001c" +
		"0000000000000000"

	// Testnet: 2020-02-15 00:00:00 UTC, bits 0x1d00ffff.
	genesisTestnet = "01000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"8034475e00000000" +
		"ffff001d" +
		"0000000000000000"

	// Simnet: 2020-02-16 00:00:00 UTC, bits 0x207fffff.
	genesisSimnet = "01000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0086485e00000000" +
		"ffff7f20" +
		"0000000000000000"
)
