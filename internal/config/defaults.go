package config

import (
	_ "embed"
)

//go:embed defaults/drill.yaml
var defaultDrillYAML []byte

//go:embed defaults/maps.yaml
var defaultMapsYAML []byte

// DefaultDrillConfig returns the built-in drill configuration. It matches
// defaults/drill.yaml and is used when the embedded file cannot be parsed.
func DefaultDrillConfig() DrillConfig {
	return DrillConfig{
		ReferenceHeight: 1080,
		Player: PlayerConfig{
			Width:  40,
			Height: 60,
		},
		Vertical: VerticalConfig{
			DepthPerTick:    0.1,
			TransitionDepth: 200,
			BaseScrollSpeed: 4,
			ScrollPerDepth:  0.005,
			MoveSpeed:       8,
			PlayerAnchor:    0.25,
			SpawnChance:     0.05,
			MagmaChance:     0.2,
			PowerupChance:   0.1,
			RockMinRadius:   40,
			RockMaxRadius:   70,
			HazardRadius:    30,
			SpawnMargin:     100,
			CullMargin:      100,
			RockDamage:      0.5,
			MagmaDamage:     1.5,
			PowerupScore:    100,
		},
		Horizontal: HorizontalConfig{
			ScrollSpeed:    5,
			MoveSpeed:      8,
			EntryX:         0.1,
			LaneTop:        0.1,
			LaneBottom:     0.9,
			CorridorTop:    0.25,
			CorridorBottom: 0.75,
			SpawnChance:    0.03,
			RockChance:     0.3,
			RockRadius:     40,
			CoinRadius:     20,
			PlayerSize:     30,
			SpawnMargin:    100,
			CullMargin:     100,
			RockDamage:     5,
			CoinScore:      50,
			SurvivalScore:  1,
			TrailLength:    40,
		},
		Objective: ObjectiveConfig{
			Droplets:         25,
			TimeLimitSeconds: 90,
			CountdownWarning: 10,
		},
		Loop: LoopConfig{
			TickRate:         60,
			PublishEvery:     10,
			MaxTicksPerFrame: 5,
		},
	}
}
