// Package config reads the btx.yaml configuration file.
//
//	transaction_files:
//	  - data/*.json
//	exchange:
//	  default_rate: 150
//	  history_file: data/HistoricalPrices.csv
//	output_dir: output
//	logging:
//	  level: info
//	account_aliases:
//	  Individual_XXX123: main
//
// BTX_* environment variables override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "btx.yaml"

type Config struct {
	TransactionFiles []string          `yaml:"transaction_files"`
	Exchange         ExchangeConfig    `yaml:"exchange"`
	OutputDir        string            `yaml:"output_dir"`
	Logging          LoggingConfig     `yaml:"logging"`
	AccountAliases   map[string]string `yaml:"account_aliases"`
}

type ExchangeConfig struct {
	DefaultRate decimal.Decimal `yaml:"default_rate"`
	HistoryFile string          `yaml:"history_file"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("BTX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BTX_RATE_FILE"); v != "" {
		cfg.Exchange.HistoryFile = v
	}
	if v := os.Getenv("BTX_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("BTX_TRANSACTION_FILES"); v != "" {
		cfg.TransactionFiles = strings.Split(v, ",")
	}
	if v := os.Getenv("BTX_DEFAULT_RATE"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid BTX_DEFAULT_RATE %q: %w", v, err)
		}
		cfg.Exchange.DefaultRate = d
	}
	return nil
}

func setDefaults(cfg *Config) {
	if len(cfg.TransactionFiles) == 0 {
		cfg.TransactionFiles = []string{"data/*.json"}
	}
	if cfg.Exchange.DefaultRate.IsZero() {
		cfg.Exchange.DefaultRate = decimal.NewFromInt(150)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Exchange.DefaultRate.IsNegative() {
		return fmt.Errorf("exchange.default_rate must be positive, got %s", c.Exchange.DefaultRate)
	}
	if _, ok := ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	return nil
}

// ParseLevel converts a level name, false if unknown.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
