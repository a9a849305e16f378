package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
	Log      LogConfig
}

// DatabaseConfig holds the working-store location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LedgerConfig holds budget-wide settings.
type LedgerConfig struct {
	BaseCurrency string `mapstructure:"base_currency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use
// prefix FAMLEDGER_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "famledger", "currentbudget.sqlite"))
	v.SetDefault("ledger.base_currency", "GBP")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FAMLEDGER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "famledger"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FAMLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
