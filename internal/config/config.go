// Package config provides YAML-based configuration loading and difficulty
// presets for blockfall.
package config

import "time"

// Config contains all tunable settings for a game.
type Config struct {
	Field      FieldConfig   `yaml:"field"`
	Gravity    GravityConfig `yaml:"gravity"`
	Input      InputConfig   `yaml:"input"`
	Randomizer string        `yaml:"randomizer"` // "uniform" or "bag"
	Effects    EffectsConfig `yaml:"effects"`
	Sound      SoundConfig   `yaml:"sound"`
}

// FieldConfig defines the playfield dimensions.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GravityConfig defines how often the driver issues a gravity tick.
type GravityConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// InputConfig defines key handling in the driver.
type InputConfig struct {
	RepeatDelayMS int `yaml:"repeat_delay_ms"`
}

// EffectsConfig defines visual feedback timing.
type EffectsConfig struct {
	LineClearTicks  int `yaml:"line_clear_ticks"`  // Number of flash toggles after a clear
	FlashIntervalMS int `yaml:"flash_interval_ms"` // Time between flash toggles
}

// SoundConfig defines audio settings.
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 - 1.0
}

// GravityInterval returns the gravity period as a duration.
func (c Config) GravityInterval() time.Duration {
	return time.Duration(c.Gravity.IntervalMS) * time.Millisecond
}

// RepeatDelay returns the input repeat throttle as a duration.
func (c Config) RepeatDelay() time.Duration {
	return time.Duration(c.Input.RepeatDelayMS) * time.Millisecond
}

// FlashInterval returns the line-clear flash period as a duration.
func (c Config) FlashInterval() time.Duration {
	return time.Duration(c.Effects.FlashIntervalMS) * time.Millisecond
}
