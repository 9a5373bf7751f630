package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultSampleRate = 44100
	petCyclesPerSec   = 1000000
)

// Config holds the host audio settings. Values from the tune file and
// flags override it.
type Config struct {
	SampleRate      int    `yaml:"sample_rate"`
	CyclesPerSecond int    `yaml:"cycles_per_second"`
	Channels        int    `yaml:"channels"`
	Output          string `yaml:"output"`
	Play            bool   `yaml:"play"`
	LogLevel        string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		SampleRate:      defaultSampleRate,
		CyclesPerSecond: petCyclesPerSec,
		Channels:        1,
		LogLevel:        "info",
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.CyclesPerSecond <= 0 {
		return fmt.Errorf("cycles_per_second must be positive, got %d", c.CyclesPerSecond)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return errors.New("channels must be 1 or 2")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
