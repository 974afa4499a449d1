package config

// Config holds node-specific runtime configuration. These settings can
// vary between nodes without affecting consensus.
type Config struct {
	// Network selects the consensus parameter set.
	Network NetworkType

	// HeadersFile, when set, is a file of hex-encoded headers (one per
	// line) imported at startup.
	HeadersFile string

	// Logging
	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// Default returns the default node configuration for the given network.
func Default(network NetworkType) *Config {
	return &Config{
		Network: network,
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
