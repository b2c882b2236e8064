// Package config provides YAML-based game configuration loading, the map
// catalogue and difficulty presets for the drill game.
package config

import (
	"errors"
	"fmt"
)

// DrillConfig contains every tunable of the simulation and its loop.
type DrillConfig struct {
	ReferenceHeight float64          `yaml:"reference_height"`
	Player          PlayerConfig     `yaml:"player"`
	Vertical        VerticalConfig   `yaml:"vertical"`
	Horizontal      HorizontalConfig `yaml:"horizontal"`
	Objective       ObjectiveConfig  `yaml:"objective"`
	Loop            LoopConfig       `yaml:"loop"`
}

// PlayerConfig defines the drill's size at the reference height.
type PlayerConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// VerticalConfig defines the descent phase.
type VerticalConfig struct {
	DepthPerTick    float64 `yaml:"depth_per_tick"`
	TransitionDepth float64 `yaml:"transition_depth"`
	BaseScrollSpeed float64 `yaml:"base_scroll_speed"`
	ScrollPerDepth  float64 `yaml:"scroll_per_depth"` // Added to scroll speed per unit of depth
	MoveSpeed       float64 `yaml:"move_speed"`
	PlayerAnchor    float64 `yaml:"player_anchor"` // Fraction of viewport height
	SpawnChance     float64 `yaml:"spawn_chance"`
	MagmaChance     float64 `yaml:"magma_chance"`
	PowerupChance   float64 `yaml:"powerup_chance"` // Of the non-magma spawns
	RockMinRadius   float64 `yaml:"rock_min_radius"`
	RockMaxRadius   float64 `yaml:"rock_max_radius"`
	HazardRadius    float64 `yaml:"hazard_radius"` // Magma and powerup radius
	SpawnMargin     float64 `yaml:"spawn_margin"`
	CullMargin      float64 `yaml:"cull_margin"`
	RockDamage      float64 `yaml:"rock_damage"`  // Per overlapping tick
	MagmaDamage     float64 `yaml:"magma_damage"` // Per overlapping tick
	PowerupScore    int     `yaml:"powerup_score"`
}

// HorizontalConfig defines the geosteering phase.
type HorizontalConfig struct {
	ScrollSpeed    float64 `yaml:"scroll_speed"`
	MoveSpeed      float64 `yaml:"move_speed"`
	EntryX         float64 `yaml:"entry_x"` // Fraction of viewport width
	LaneTop        float64 `yaml:"lane_top"`
	LaneBottom     float64 `yaml:"lane_bottom"`
	CorridorTop    float64 `yaml:"corridor_top"`
	CorridorBottom float64 `yaml:"corridor_bottom"`
	SpawnChance    float64 `yaml:"spawn_chance"`
	RockChance     float64 `yaml:"rock_chance"`
	RockRadius     float64 `yaml:"rock_radius"`
	CoinRadius     float64 `yaml:"coin_radius"`
	PlayerSize     float64 `yaml:"player_size"`
	SpawnMargin    float64 `yaml:"spawn_margin"`
	CullMargin     float64 `yaml:"cull_margin"`
	RockDamage     float64 `yaml:"rock_damage"` // One-shot
	CoinScore      int     `yaml:"coin_score"`
	SurvivalScore  int     `yaml:"survival_score"` // Per tick
	TrailLength    int     `yaml:"trail_length"`
}

// ObjectiveConfig defines the geosteering win condition.
type ObjectiveConfig struct {
	Droplets         int     `yaml:"droplets"`           // 0 disables the win condition
	TimeLimitSeconds float64 `yaml:"time_limit_seconds"` // 0 disables the countdown
	CountdownWarning float64 `yaml:"countdown_warning"`  // Seconds with a tick cue
}

// LoopConfig defines the frame driver.
type LoopConfig struct {
	TickRate         int `yaml:"tick_rate"`
	PublishEvery     int `yaml:"publish_every"`
	MaxTicksPerFrame int `yaml:"max_ticks_per_frame"`
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid drill config")

// Validate rejects values the simulation cannot run with.
func (c DrillConfig) Validate() error {
	check := func(ok bool, field string) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, field)
	}

	for _, err := range []error{
		check(c.ReferenceHeight > 0, "reference_height must be positive"),
		check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive"),
		check(c.Vertical.DepthPerTick > 0, "vertical.depth_per_tick must be positive"),
		check(c.Vertical.TransitionDepth > 0, "vertical.transition_depth must be positive"),
		check(isChance(c.Vertical.SpawnChance), "vertical.spawn_chance must be in [0,1]"),
		check(isChance(c.Vertical.MagmaChance), "vertical.magma_chance must be in [0,1]"),
		check(isChance(c.Vertical.PowerupChance), "vertical.powerup_chance must be in [0,1]"),
		check(c.Vertical.RockMaxRadius >= c.Vertical.RockMinRadius, "vertical rock radius range is inverted"),
		check(c.Vertical.PlayerAnchor >= 0 && c.Vertical.PlayerAnchor <= 1, "vertical.player_anchor must be in [0,1]"),
		check(isChance(c.Horizontal.SpawnChance), "horizontal.spawn_chance must be in [0,1]"),
		check(isChance(c.Horizontal.RockChance), "horizontal.rock_chance must be in [0,1]"),
		check(c.Horizontal.LaneTop < c.Horizontal.LaneBottom, "horizontal lane is empty"),
		check(c.Horizontal.CorridorTop <= c.Horizontal.CorridorBottom, "horizontal corridor is inverted"),
		check(c.Horizontal.TrailLength > 0, "horizontal.trail_length must be positive"),
		check(c.Objective.Droplets >= 0, "objective.droplets must not be negative"),
		check(c.Objective.TimeLimitSeconds >= 0, "objective.time_limit_seconds must not be negative"),
		check(c.Loop.TickRate > 0, "loop.tick_rate must be positive"),
		check(c.Loop.PublishEvery > 0, "loop.publish_every must be positive"),
		check(c.Loop.MaxTicksPerFrame > 0, "loop.max_ticks_per_frame must be positive"),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func isChance(p float64) bool {
	return p >= 0 && p <= 1
}
