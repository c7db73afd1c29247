package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultYAML []byte

// Default returns the hard-coded default configuration.
// It matches the embedded defaults/blockfall.yaml.
func Default() Config {
	return Config{
		Field: FieldConfig{
			Width:  10,
			Height: 20,
		},
		Gravity: GravityConfig{
			IntervalMS: 1000,
		},
		Input: InputConfig{
			RepeatDelayMS: 100,
		},
		Randomizer: "uniform",
		Effects: EffectsConfig{
			LineClearTicks:  6,
			FlashIntervalMS: 60,
		},
		Sound: SoundConfig{
			Enabled: false,
			Volume:  0.3,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
