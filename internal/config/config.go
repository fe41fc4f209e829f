package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ResetPolicy controls how an accepted bid affects the countdown.
type ResetPolicy string

const (
	// ResetAlways restores the full duration on every accepted bid.
	ResetAlways ResetPolicy = "always"
	// ResetExtend restores the full duration only when remaining time has
	// dropped below ExtendThreshold.
	ResetExtend ResetPolicy = "extend"
)

// Config is the static option surface of the engine. Options are read once at
// startup and never renegotiated mid-session.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH"`

	DefaultBalance int64         `env:"DEFAULT_BALANCE" envDefault:"200000000"`
	MinIncrement   int64         `env:"MIN_INCREMENT" envDefault:"1000000"`
	Duration       time.Duration `env:"AUCTION_DURATION" envDefault:"60s"`

	WarningThreshold  time.Duration `env:"WARNING_THRESHOLD" envDefault:"30s"`
	CriticalThreshold time.Duration `env:"CRITICAL_THRESHOLD" envDefault:"10s"`

	ResetPolicy     ResetPolicy   `env:"RESET_POLICY" envDefault:"always"`
	ExtendThreshold time.Duration `env:"EXTEND_THRESHOLD" envDefault:"10s"`

	ArbiterTimeout  time.Duration `env:"ARBITER_TIMEOUT" envDefault:"2s"`
	AllowSelfOutbid bool          `env:"ALLOW_SELF_OUTBID" envDefault:"false"`

	// Tick is the countdown classification interval. Tests shrink it.
	Tick time.Duration `env:"COUNTDOWN_TICK" envDefault:"1s"`
}

// Load parses configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values for internal consistency.
func (c Config) Validate() error {
	if c.MinIncrement <= 0 {
		return fmt.Errorf("config: MIN_INCREMENT must be positive, got %d", c.MinIncrement)
	}
	if c.DefaultBalance <= 0 {
		return fmt.Errorf("config: DEFAULT_BALANCE must be positive, got %d", c.DefaultBalance)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: AUCTION_DURATION must be positive, got %s", c.Duration)
	}
	if c.CriticalThreshold > c.WarningThreshold {
		return fmt.Errorf("config: CRITICAL_THRESHOLD %s exceeds WARNING_THRESHOLD %s", c.CriticalThreshold, c.WarningThreshold)
	}
	switch c.ResetPolicy {
	case ResetAlways, ResetExtend:
	default:
		return fmt.Errorf("config: unknown RESET_POLICY %q", c.ResetPolicy)
	}
	if c.ArbiterTimeout <= 0 {
		return fmt.Errorf("config: ARBITER_TIMEOUT must be positive, got %s", c.ArbiterTimeout)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("config: COUNTDOWN_TICK must be positive, got %s", c.Tick)
	}
	return nil
}

// Default returns the configuration used when no environment is present.
// Balance and increment defaults mirror the production credit scale.
func Default() Config {
	return Config{
		Port:              "8080",
		DefaultBalance:    200_000_000,
		MinIncrement:      1_000_000,
		Duration:          60 * time.Second,
		WarningThreshold:  30 * time.Second,
		CriticalThreshold: 10 * time.Second,
		ResetPolicy:       ResetAlways,
		ExtendThreshold:   10 * time.Second,
		ArbiterTimeout:    2 * time.Second,
		Tick:              time.Second,
	}
}
