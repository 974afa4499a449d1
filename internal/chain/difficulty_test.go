package chain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Corvus-tech/corvus-spv/config"
	"github.com/Corvus-tech/corvus-spv/internal/pow"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

// testRetargetParams builds a retargeting network small enough to drive
// through a full window in a test. The single-sample median makes window
// timing read directly off header timestamps.
func testRetargetParams() *config.Params {
	p := config.SimnetParams()
	p.NoRetargeting = false
	p.TargetWindow = 4
	p.TargetTimespan = 4 * p.TargetSpacing
	p.MinActual = p.TargetTimespan / 4
	p.MaxActual = p.TargetTimespan * 4
	p.MedianTimeSpan = 1
	return p
}

func retargetChain(t *testing.T) *Chain {
	t.Helper()
	c, err := New(testRetargetParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNextBitsGenesis(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	bits, err := c.CalcNextBits(simnetGenesisTime, nil)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}
	if bits != c.params.PowLimitBits {
		t.Fatalf("genesis bits: got %#x, want %#x", bits, c.params.PowLimitBits)
	}
}

func TestNextBitsNoRetargeting(t *testing.T) {
	c := testChain(t)
	defer c.Close()

	tip := extend(t, c, c.Genesis(), 6, 0)
	bits, err := c.CalcNextBits(tip.Timestamp+600, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}
	if bits != c.params.PowLimitBits {
		t.Fatalf("pinned bits: got %#x, want %#x", bits, c.params.PowLimitBits)
	}
}

func TestNextBitsInsufficientHistory(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	// Three headers above genesis: one short of a full window.
	tip := c.Genesis()
	for i := 0; i < 3; i++ {
		h := mineHeader(t, c, tip, tip.Timestamp+300, 0)
		if err := c.Add(h); err != nil {
			t.Fatalf("Add: %v", err)
		}
		tip = c.Tip()
	}

	bits, err := c.CalcNextBits(tip.Timestamp+300, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}
	if bits != c.params.PowLimitBits {
		t.Fatalf("short-history bits: got %#x, want %#x", bits, c.params.PowLimitBits)
	}
}

func TestNextBitsRetargetsFastWindow(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	// Four blocks in half the target spacing each: the window took 1200s
	// against an ideal 2400s. Damping moves a quarter of the way, so the
	// effective timespan is 2100s and difficulty tightens by 2100/2400.
	tip := c.Genesis()
	for i := 0; i < 4; i++ {
		h := mineHeader(t, c, tip, tip.Timestamp+300, 0)
		if err := c.Add(h); err != nil {
			t.Fatalf("Add: %v", err)
		}
		tip = c.Tip()
	}

	got, err := c.CalcNextBits(tip.Timestamp+300, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}

	expected := new(big.Int).Mul(pow.CompactToBig(c.params.PowLimitBits), big.NewInt(2100))
	expected.Div(expected, big.NewInt(2400))
	want := pow.BigToCompact(expected)

	if got != want {
		t.Fatalf("retargeted bits: got %#x, want %#x", got, want)
	}
	if got == c.params.PowLimitBits {
		t.Fatal("fast window must tighten difficulty")
	}

	// The chain keeps extending across the retarget boundary.
	h := mineHeader(t, c, tip, tip.Timestamp+300, 0)
	if err := c.Add(h); err != nil {
		t.Fatalf("Add across retarget boundary: %v", err)
	}
	if c.Height() != 5 {
		t.Fatalf("height: got %d, want 5", c.Height())
	}
}

func TestNextBitsSlowWindowHitsCeiling(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	// 10000s per block: even after the damped timespan is clamped to
	// MaxActual, the scaled target exceeds the proof-of-work ceiling.
	g := simnetGenesisTime
	tip := seedHeaders(t, c, []uint64{g + 10000, g + 20000, g + 30000, g + 40000})

	bits, err := c.CalcNextBits(tip.Timestamp+300, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}
	if bits != c.params.PowLimitBits {
		t.Fatalf("ceiling bits: got %#x, want %#x", bits, c.params.PowLimitBits)
	}
}

func TestNextBitsClampsMaxActual(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	// Seed the window at an eighth of the ceiling so the clamped drop
	// stays below it: a 40000s window clamps to MaxActual (9600s), and
	// the target eases by exactly 9600/2400.
	tight := pow.BigToCompact(new(big.Int).Rsh(c.params.PowLimit, 3))
	g := simnetGenesisTime
	parent := c.genesis
	for i, ts := range []uint64{g + 10000, g + 20000, g + 30000, g + 40000} {
		h := &header.Header{
			Version:   1,
			PrevHash:  parent.Hash(),
			Timestamp: ts,
			Bits:      tight,
			Nonce:     uint64(i),
		}
		h.Height = parent.Height + 1
		c.hashes[h.Hash()] = h
		parent = h
	}

	got, err := c.CalcNextBits(parent.Timestamp+300, parent)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}

	// The window averages the four seeded headers only, so the average
	// target is the tight one.
	expected := new(big.Int).Mul(pow.CompactToBig(tight), big.NewInt(9600))
	expected.Div(expected, big.NewInt(2400))
	want := pow.BigToCompact(expected)

	if got != want {
		t.Fatalf("clamped bits: got %#x, want %#x", got, want)
	}
}

func TestNextBitsClampsMinActual(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	// Window timestamps running 5000s backwards damp to 550s, below
	// MinActual (600s). The clamp caps the tightening at 600/2400.
	g := simnetGenesisTime
	tip := seedHeaders(t, c, []uint64{g - 1000, g - 2000, g - 3000, g - 5000})

	got, err := c.CalcNextBits(tip.Timestamp+300, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}

	expected := new(big.Int).Mul(pow.CompactToBig(c.params.PowLimitBits), big.NewInt(600))
	expected.Div(expected, big.NewInt(2400))
	want := pow.BigToCompact(expected)

	if got != want {
		t.Fatalf("clamped bits: got %#x, want %#x", got, want)
	}
}

func TestNextBitsNegativeTimespanIsCorrupt(t *testing.T) {
	c := retargetChain(t)
	defer c.Close()

	// An 8000s backwards window damps to a negative timespan, which only
	// corrupted timestamps can produce.
	g := simnetGenesisTime
	tip := seedHeaders(t, c, []uint64{g - 2000, g - 4000, g - 6000, g - 8000})

	_, err := c.CalcNextBits(tip.Timestamp+300, tip)
	if !errors.Is(err, ErrChainCorrupt) {
		t.Fatalf("CalcNextBits: got %v, want ErrChainCorrupt", err)
	}
}

func TestNextBitsTargetReset(t *testing.T) {
	params := testRetargetParams()
	params.TargetReset = true

	c, err := New(params)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	tip := c.Genesis()
	for i := 0; i < 4; i++ {
		h := mineHeader(t, c, tip, tip.Timestamp+300, 0)
		if err := c.Add(h); err != nil {
			t.Fatalf("Add: %v", err)
		}
		tip = c.Tip()
	}

	// A gap of more than twice the target spacing drops back to the base
	// difficulty.
	stall := uint64(2*params.TargetSpacing.Seconds()) + 1
	bits, err := c.CalcNextBits(tip.Timestamp+stall, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}
	if bits != params.PowLimitBits {
		t.Fatalf("stalled bits: got %#x, want %#x", bits, params.PowLimitBits)
	}

	// Inside the gap the normal retarget applies.
	bits, err = c.CalcNextBits(tip.Timestamp+300, tip)
	if err != nil {
		t.Fatalf("CalcNextBits: %v", err)
	}
	if bits == params.PowLimitBits {
		t.Fatal("normal spacing must retarget, not reset")
	}
}
