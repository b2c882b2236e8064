package config

import "strings"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists every known preset in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset converts a flag value to a preset. Empty selects normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	if s == "" {
		return DifficultyNormal, true
	}
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// presetScaling holds the multipliers a preset applies to the defaults.
type presetScaling struct {
	spawn     float64 // Spawn chances
	damage    float64 // Rock and magma damage
	timeLimit float64 // Countdown length
}

func scalingFor(preset DifficultyPreset) presetScaling {
	switch preset {
	case DifficultyEasy:
		return presetScaling{spawn: 0.7, damage: 0.6, timeLimit: 1.3}
	case DifficultyHard:
		return presetScaling{spawn: 1.4, damage: 1.5, timeLimit: 0.8}
	default:
		return presetScaling{spawn: 1, damage: 1, timeLimit: 1}
	}
}

// ApplyPreset scales a drill configuration for a difficulty preset.
// Normal and fixed leave the configuration unchanged.
func ApplyPreset(cfg *DrillConfig, preset DifficultyPreset) {
	s := scalingFor(preset)
	if s == (presetScaling{spawn: 1, damage: 1, timeLimit: 1}) {
		return
	}

	cfg.Vertical.SpawnChance = clampF(cfg.Vertical.SpawnChance*s.spawn, 0, 1)
	cfg.Horizontal.SpawnChance = clampF(cfg.Horizontal.SpawnChance*s.spawn, 0, 1)

	cfg.Vertical.RockDamage *= s.damage
	cfg.Vertical.MagmaDamage *= s.damage
	cfg.Horizontal.RockDamage *= s.damage

	cfg.Objective.TimeLimitSeconds *= s.timeLimit
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
