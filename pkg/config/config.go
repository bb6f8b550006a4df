// Package config holds the signer's configuration, loaded from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/btcsuite/btclog"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/roles"
	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

// Network names.
const (
	MainNet = "mainnet"
	TestNet = "testnet"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the signer configuration.
type Config struct {
	// Network selects the address prefix: "mainnet" or "testnet".
	Network string `toml:"network"`

	// ExpirationWindow is how long a new transaction stays valid.
	ExpirationWindow time.Duration `toml:"expiration_window"`

	// FeeLimit caps the energy fee of smart contract calls, in sun.
	FeeLimit int64 `toml:"fee_limit"`

	// DiversifierMaxAttempts caps diversifier generation.
	DiversifierMaxAttempts int `toml:"diversifier_max_attempts"`

	// LogLevel is one of trace, debug, info, warn, error, critical, off.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Network:                MainNet,
		ExpirationWindow:       roles.DefaultExpirationWindow,
		DiversifierMaxAttempts: zen.DefaultMaxDiversifierAttempts,
		LogLevel:               "info",
	}
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig,
			undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML data over the defaults and validates the result.
func Decode(data string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig,
			undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch {
	case c.Network != MainNet && c.Network != TestNet:
		return fmt.Errorf("%w: network must be %q or %q, got %q",
			ErrInvalidConfig, MainNet, TestNet, c.Network)

	case c.ExpirationWindow <= 0:
		return fmt.Errorf("%w: expiration_window must be positive",
			ErrInvalidConfig)

	case c.FeeLimit < 0:
		return fmt.Errorf("%w: fee_limit must not be negative",
			ErrInvalidConfig)

	case c.DiversifierMaxAttempts <= 0:
		return fmt.Errorf("%w: diversifier_max_attempts must be positive",
			ErrInvalidConfig)
	}

	if _, ok := btclog.LevelFromString(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig,
			c.LogLevel)
	}
	return nil
}

// AddressPrefix returns the address prefix byte of the configured network.
func (c *Config) AddressPrefix() byte {
	if strings.EqualFold(c.Network, TestNet) {
		return crypto.TestNetPrefix
	}
	return crypto.MainNetPrefix
}

// Level returns the configured log level, or info if it is not valid.
func (c *Config) Level() btclog.Level {
	level, ok := btclog.LevelFromString(c.LogLevel)
	if !ok {
		return btclog.LevelInfo
	}
	return level
}
