package configuration

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"dema/internal/aggregate"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DEMA_SCORING_PRECISION.
const EnvPrefix = "DEMA"

// AppConfig is the complete application configuration.
type AppConfig struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Journal JournalConfig `mapstructure:"journal"`
	History HistoryConfig `mapstructure:"history"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level is one of debug, info, warn, warning, error (case-insensitive).
	Level string `mapstructure:"level"`
}

// ScoringConfig tunes how alternatives are scored.
type ScoringConfig struct {
	// Precision is the number of decimals of the final score.
	Precision int `mapstructure:"precision"`
	// DomainMin and DomainMax bound leaves whose thresholds are not set.
	DomainMin float64 `mapstructure:"domain_min"`
	DomainMax float64 `mapstructure:"domain_max"`
	// Connector, when set, replaces the connector of every internal node.
	Connector string `mapstructure:"connector"`
	// Workers bounds concurrent scoring (default NumCPU).
	Workers int `mapstructure:"workers"`
	// Rules is an optional path to a YAML file of derived attribute rules.
	Rules string `mapstructure:"rules"`
}

// JournalConfig defines where evaluations are journaled.
type JournalConfig struct {
	// File path (optional, no journal when empty)
	File string `mapstructure:"file"`
	// Maximal journal file size in megabytes (default 100)
	Size int `mapstructure:"size"`
	// Number of rotated journal files kept (default 20)
	Amount int `mapstructure:"amount"`
}

// HistoryConfig bounds the in-memory evaluation history.
type HistoryConfig struct {
	// Length is the number of records kept per project.
	Length int `mapstructure:"length"`
	// TTL drops projects not evaluated for this long. Zero keeps them forever.
	TTL time.Duration `mapstructure:"ttl"`
}

// Validate checks every section and fills unset values with defaults.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Scoring.Validate(); err != nil {
		return err
	}

	if err := c.Journal.Validate(); err != nil {
		return err
	}

	if err := c.History.Validate(); err != nil {
		return err
	}

	return nil
}

func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	return nil
}

func (s *ScoringConfig) Validate() error {
	if s.Precision < 0 {
		return fmt.Errorf("scoring.precision: must not be negative, got %d", s.Precision)
	}

	if s.DomainMin >= s.DomainMax {
		return fmt.Errorf("scoring.domain_min: %v must be below domain_max %v", s.DomainMin, s.DomainMax)
	}

	if s.Connector != "" {
		c, ok := aggregate.ParseConnector(s.Connector)
		if !ok {
			return fmt.Errorf("scoring.connector: unknown connector '%s'", s.Connector)
		}
		s.Connector = string(c)
	}

	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}

	return nil
}

// Validate journal parameters
func (j *JournalConfig) Validate() error {
	if j.Amount == 0 {
		j.Amount = 20
	}

	if j.Size == 0 {
		j.Size = 100
	}

	if j.Amount < 0 || j.Size < 0 {
		return errors.New("journal: size and amount must not be negative")
	}

	return nil
}

func (h *HistoryConfig) Validate() error {
	if h.Length == 0 {
		h.Length = 100
	}

	if h.Length < 0 {
		return fmt.Errorf("history.length: must be positive, got %d", h.Length)
	}

	if h.TTL < 0 {
		return fmt.Errorf("history.ttl: must not be negative, got %s", h.TTL)
	}

	return nil
}

// Default returns the configuration used when no file is given: built-in
// defaults plus DEMA_ environment overrides.
func Default() (*AppConfig, error) {
	v := newViper()

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// LoadConfig reads a YAML configuration file. Environment variables prefixed
// with DEMA_ override file values (DEMA_SCORING_CONNECTOR=HC).
func LoadConfig(configPath string) (*AppConfig, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logger.level", "info")
	v.SetDefault("scoring.precision", 2)
	v.SetDefault("scoring.domain_min", 0)
	v.SetDefault("scoring.domain_max", 100)
	v.SetDefault("scoring.connector", "")
	v.SetDefault("scoring.workers", 0)
	v.SetDefault("scoring.rules", "")
	v.SetDefault("journal.file", "")
	v.SetDefault("journal.size", 100)
	v.SetDefault("journal.amount", 20)
	v.SetDefault("history.length", 100)
	v.SetDefault("history.ttl", "24h")
	return v
}
