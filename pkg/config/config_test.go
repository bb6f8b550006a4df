package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 6*time.Hour, cfg.ExpirationWindow)
	require.Equal(t, 1000, cfg.DiversifierMaxAttempts)
	require.Equal(t, crypto.MainNetPrefix, cfg.AddressPrefix())
	require.Equal(t, btclog.LevelInfo, cfg.Level())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stabila-sign.toml")
	data := `
network = "testnet"
expiration_window = "90m"
fee_limit = 10000000
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, TestNet, cfg.Network)
	require.Equal(t, 90*time.Minute, cfg.ExpirationWindow)
	require.Equal(t, int64(10_000_000), cfg.FeeLimit)
	require.Equal(t, 1000, cfg.DiversifierMaxAttempts)
	require.Equal(t, crypto.TestNetPrefix, cfg.AddressPrefix())
	require.Equal(t, btclog.LevelDebug, cfg.Level())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte(`colour = "blue"`), 0o600))
	_, err = LoadFile(unknown)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "network", data: `network = "regtest"`},
		{name: "window", data: `expiration_window = "0s"`},
		{name: "fee limit", data: `fee_limit = -1`},
		{name: "attempts", data: `diversifier_max_attempts = 0`},
		{name: "log level", data: `log_level = "loud"`},
		{name: "unknown key", data: `colour = "blue"`},
		{name: "unknown table key", data: "[logging]\nlevel = \"debug\""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Decode(`network = [`)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfig)
}
