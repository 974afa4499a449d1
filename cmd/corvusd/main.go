// Corvus SPV header daemon.
//
// Usage:
//
//	corvusd [--network=...] [--headers=FILE]  Run the header chain
//	corvusd --help                            Show help
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/Corvus-tech/corvus-spv/config"
	"github.com/Corvus-tech/corvus-spv/internal/chain"
	"github.com/Corvus-tech/corvus-spv/internal/log"
	"github.com/Corvus-tech/corvus-spv/pkg/header"
)

const version = "0.1.0"

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flags.Version {
		fmt.Printf("corvusd %s\n", version)
		return
	}

	log.Init(cfg.Log.Level, cfg.Log.JSON)

	c, err := chain.New(config.ParamsFor(cfg.Network))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	log.Chain.Info().
		Str("network", string(cfg.Network)).
		Str("genesis", c.Genesis().Hash().String()).
		Msg("chain initialized")

	if cfg.HeadersFile != "" {
		if err := importHeaders(c, cfg.HeadersFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	tip := c.Tip()
	log.Chain.Info().
		Uint64("height", c.Height()).
		Str("tip", tip.Hash().String()).
		Int("locator", len(c.Locator())).
		Msg("chain ready")
}

// importHeaders feeds a file of hex-encoded headers, one per line, through
// chain admission. Duplicates are skipped silently so imports are safe to
// repeat; any other rejection aborts the import.
func importHeaders(c *chain.Chain, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var admitted, skipped int
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if text == "" {
			continue
		}

		raw, err := hex.DecodeString(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		h := new(header.Header)
		if err := h.Decode(raw); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		switch err := c.Add(h); {
		case err == nil:
			admitted++
		case errors.Is(err, chain.ErrDuplicate), errors.Is(err, chain.ErrDuplicateOrphan):
			skipped++
		default:
			return fmt.Errorf("line %d: header %s: %w", line, h.Hash(), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	log.Sync.Info().
		Int("admitted", admitted).
		Int("skipped", skipped).
		Str("file", path).
		Msg("headers imported")
	return nil
}
