package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FAMLEDGER_CONFIG", "")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "GBP", c.Ledger.BaseCurrency)
	require.Equal(t, "info", c.Log.Level)
	require.Contains(t, c.Database.Path, "currentbudget.sqlite")
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[ledger]\nbase_currency = \"EUR\"\n\n[log]\nlevel = \"debug\"\n"), 0o644))
	t.Setenv("FAMLEDGER_CONFIG", cfg)
	t.Setenv("FAMLEDGER_DATABASE_PATH", filepath.Join(dir, "budget.sqlite"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "EUR", c.Ledger.BaseCurrency)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, filepath.Join(dir, "budget.sqlite"), c.Database.Path)
}
