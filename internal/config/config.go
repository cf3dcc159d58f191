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
	VAT      VATConfig
	Import   ImportConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// VATConfig holds the tax rate applied to VAT-inclusive amounts.
type VATConfig struct {
	RatePercent float64 `mapstructure:"rate_percent"`
}

// ImportConfig controls which workbook files the importer picks up.
type ImportConfig struct {
	Extensions []string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from file and env. Env var overrides use prefix BUHTUUND_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "buhtuund", "buhtuund.db"))
	v.SetDefault("vat.rate_percent", 20.0)
	v.SetDefault("import.extensions", []string{".xlsx", ".xls"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BUHTUUND_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "buhtuund"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BUHTUUND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.VAT.RatePercent <= 0 || c.VAT.RatePercent >= 100 {
		c.VAT.RatePercent = 20
	}
	return c, nil
}
