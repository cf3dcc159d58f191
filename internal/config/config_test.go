package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUHTUUND_CONFIG", filepath.Join(t.TempDir(), "нет.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Database.Path)
	require.Equal(t, 20.0, cfg.VAT.RatePercent)
	require.Equal(t, []string{".xlsx", ".xls"}, cfg.Import.Extensions)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BUHTUUND_CONFIG", filepath.Join(t.TempDir(), "нет.toml"))
	t.Setenv("BUHTUUND_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("BUHTUUND_VAT_RATE_PERCENT", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/override.db", cfg.Database.Path)
	require.Equal(t, 10.0, cfg.VAT.RatePercent)
}

func TestBadRateFallsBack(t *testing.T) {
	t.Setenv("BUHTUUND_CONFIG", filepath.Join(t.TempDir(), "нет.toml"))
	t.Setenv("BUHTUUND_VAT_RATE_PERCENT", "150")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 20.0, cfg.VAT.RatePercent)
}
