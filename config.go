package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mainstime/clocksim/lib/units"
)

// Config holds the simulator settings, resolved from flags, environment
// variables (CLOCKSIM_*), and an optional config file, in that priority
// order.
type Config struct {
	Frequency        int    // mains ticks per nominal second, 50 or 60
	DebounceDepth    int    // control line debounce depth in ticks
	Format           string // "24h" or "12h"
	SegmentActiveLow bool
	LatchActiveLow   bool
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	CPUProfile       bool
}

// loadConfig resolves settings from the given flag set plus environment and
// file sources.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	// A .env file is honored if present; missing is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLOCKSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Frequency:        v.GetInt("freq"),
		DebounceDepth:    v.GetInt("debounce"),
		Format:           v.GetString("format"),
		SegmentActiveLow: v.GetBool("seg-active-low"),
		LatchActiveLow:   v.GetBool("latch-active-low"),
		HTTPAddr:         v.GetString("addr"),
		LogLevel:         v.GetString("log-level"),
		LogFormat:        v.GetString("log-format"),
		CPUProfile:       v.GetBool("cpuprofile"),
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Frequency != 50 && c.Frequency != 60 {
		return fmt.Errorf("freq must be 50 or 60, got %d", c.Frequency)
	}
	if c.DebounceDepth < 1 || c.DebounceDepth > 8 {
		return fmt.Errorf("debounce must be between 1 and 8, got %d", c.DebounceDepth)
	}
	if c.Format != "24h" && c.Format != "12h" {
		return fmt.Errorf("format must be 24h or 12h, got %q", c.Format)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log-format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// cycleConfig maps the settings onto the clock's construction parameters.
func (c *Config) cycleConfig() units.Config {
	return units.Config{
		DebounceDepth: c.DebounceDepth,
		Scanner: units.ScannerConfig{
			SegmentActiveLow: c.SegmentActiveLow,
			LatchActiveLow:   c.LatchActiveLow,
		},
	}
}

// initialInputs returns the panel levels implied by the settings.
func (c *Config) initialInputs() units.Inputs {
	return units.Inputs{
		Freq50: c.Frequency == 50,
		Hour12: c.Format == "12h",
	}
}

// tickPeriod is the wall-clock interval between mains ticks.
func (c *Config) tickPeriod() time.Duration {
	return time.Second / time.Duration(c.Frequency)
}
