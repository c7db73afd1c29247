package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "blockfall.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.blockfall/configs/blockfall.yaml ->
// ./configs/blockfall.yaml -> embedded default -> hard-coded default.
// Fields missing from a file keep their default values.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML over the defaults and validates the result.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockfall", "configs", filename)
}

// Validate reports every invalid setting in cfg.
func (c Config) Validate() error {
	var errs []error
	if c.Field.Width < 4 || c.Field.Height < 4 {
		errs = append(errs, fmt.Errorf("field must be at least 4x4, got %dx%d", c.Field.Width, c.Field.Height))
	}
	if c.Gravity.IntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("gravity.interval_ms must be positive, got %d", c.Gravity.IntervalMS))
	}
	if c.Input.RepeatDelayMS < 0 {
		errs = append(errs, fmt.Errorf("input.repeat_delay_ms must not be negative, got %d", c.Input.RepeatDelayMS))
	}
	switch c.Randomizer {
	case "uniform", "bag":
	default:
		errs = append(errs, fmt.Errorf("randomizer must be uniform or bag, got %q", c.Randomizer))
	}
	if c.Effects.LineClearTicks < 0 || c.Effects.FlashIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("effects need line_clear_ticks >= 0 and flash_interval_ms > 0"))
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		errs = append(errs, fmt.Errorf("sound.volume must be within [0, 1], got %g", c.Sound.Volume))
	}
	return errors.Join(errs...)
}
