package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
// Presets only change the constant gravity interval; there is no speed curve.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known presets in increasing difficulty.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// GravityForPreset returns the gravity interval in milliseconds for a preset.
func GravityForPreset(preset DifficultyPreset) (int, error) {
	switch preset {
	case DifficultyEasy:
		return 1000, nil
	case DifficultyNormal:
		return 800, nil
	case DifficultyHard:
		return 500, nil
	default:
		return 0, fmt.Errorf("config: unknown difficulty %q", preset)
	}
}

// ApplyPreset sets the gravity interval from a difficulty preset.
// An empty preset leaves the config unchanged.
func ApplyPreset(cfg *Config, preset DifficultyPreset) error {
	if preset == "" {
		return nil
	}
	ms, err := GravityForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Gravity.IntervalMS = ms
	return nil
}
