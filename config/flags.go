package config

import (
	"flag"
	"fmt"
	"os"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network     string
	HeadersFile string

	// Logging
	LogLevel string
	LogJSON  bool

	// Remaining args
	Args []string

	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("corvus", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")

	fs.StringVar(&f.Network, "network", "", "Network type (mainnet, testnet, or simnet)")
	fs.StringVar(&f.HeadersFile, "headers", "", "File of hex-encoded headers to import at startup")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()
	return f
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.HeadersFile != "" {
		cfg.HeadersFile = f.HeadersFile
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// Validate checks a Config for settings no node can run with.
func Validate(cfg *Config) error {
	switch cfg.Network {
	case Mainnet, Testnet, Simnet:
	default:
		return fmt.Errorf("unknown network %q", cfg.Network)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	return nil
}

// Load builds the node configuration from defaults and command-line
// flags, returning the parsed flags alongside it.
func Load() (*Config, *Flags, error) {
	f := ParseFlags()

	network := Mainnet
	if f.Network != "" {
		network = NetworkType(f.Network)
	}

	cfg := Default(network)
	ApplyFlags(cfg, f)

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
