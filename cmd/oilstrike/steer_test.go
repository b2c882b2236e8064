package main

import (
	"testing"

	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/sim"
)

func TestParseSteer(t *testing.T) {
	tests := []struct {
		input   string
		steps   []steerStep
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"L30", []steerStep{{core.ActionLeft, 30}}, false},
		{"l30, n10 ,R5", []steerStep{{core.ActionLeft, 30}, {core.ActionNone, 10}, {core.ActionRight, 5}}, false},
		{"U2,D2", []steerStep{{core.ActionUp, 2}, {core.ActionDown, 2}}, false},
		{"X10", nil, true},
		{"L", nil, true},
		{"L0", nil, true},
		{"L-3", nil, true},
		{"Lten", nil, true},
		{"L10,,R10", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			steps, err := parseSteer(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSteer(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(steps) != len(tt.steps) {
				t.Fatalf("parseSteer(%q) = %v, expected %v", tt.input, steps, tt.steps)
			}
			for i := range steps {
				if steps[i] != tt.steps[i] {
					t.Errorf("parseSteer(%q)[%d] = %v, expected %v", tt.input, i, steps[i], tt.steps[i])
				}
			}
		})
	}
}

func TestActionAtCycles(t *testing.T) {
	steps := []steerStep{{core.ActionLeft, 3}, {core.ActionNone, 1}, {core.ActionRight, 2}}

	tests := []struct {
		tick     int
		expected core.Action
	}{
		{0, core.ActionLeft},
		{2, core.ActionLeft},
		{3, core.ActionNone},
		{4, core.ActionRight},
		{5, core.ActionRight},
		{6, core.ActionLeft},
		{10, core.ActionRight},
	}

	for _, tt := range tests {
		if got := actionAt(steps, tt.tick); got != tt.expected {
			t.Errorf("actionAt(%d) = %v, expected %v", tt.tick, got, tt.expected)
		}
	}

	if got := actionAt(nil, 5); got != core.ActionNone {
		t.Errorf("actionAt(nil) = %v, expected %v", got, core.ActionNone)
	}
}

func drillAt(phase sim.Phase, x, y float64, obstacles ...sim.Obstacle) sim.Snapshot {
	return sim.Snapshot{
		Phase:     phase,
		Scale:     1,
		Viewport:  core.Viewport{W: 800, H: 1080},
		Player:    sim.Player{Pos: core.Vec2{X: x, Y: y}, HalfW: 15, HalfH: 15},
		Obstacles: obstacles,
	}
}

func TestAutopilot(t *testing.T) {
	tests := []struct {
		name     string
		snap     sim.Snapshot
		expected core.Action
	}{
		{
			name:     "nothing ahead",
			snap:     drillAt(sim.PhaseVertical, 400, 200),
			expected: core.ActionNone,
		},
		{
			name:     "rock ahead to the right",
			snap:     drillAt(sim.PhaseVertical, 400, 200, sim.Obstacle{Pos: core.Vec2{X: 420, Y: 400}, Kind: sim.KindRock, Radius: 30}),
			expected: core.ActionLeft,
		},
		{
			name:     "magma ahead to the left",
			snap:     drillAt(sim.PhaseVertical, 400, 200, sim.Obstacle{Pos: core.Vec2{X: 390, Y: 350}, Kind: sim.KindMagma, Radius: 30}),
			expected: core.ActionRight,
		},
		{
			name:     "rock already passed",
			snap:     drillAt(sim.PhaseVertical, 400, 200, sim.Obstacle{Pos: core.Vec2{X: 400, Y: 100}, Kind: sim.KindRock, Radius: 30}),
			expected: core.ActionNone,
		},
		{
			name:     "rock beyond look-ahead",
			snap:     drillAt(sim.PhaseVertical, 400, 200, sim.Obstacle{Pos: core.Vec2{X: 400, Y: 900}, Kind: sim.KindRock, Radius: 30}),
			expected: core.ActionNone,
		},
		{
			name:     "chase powerup",
			snap:     drillAt(sim.PhaseVertical, 400, 200, sim.Obstacle{Pos: core.Vec2{X: 250, Y: 350}, Kind: sim.KindPowerup, Radius: 10}),
			expected: core.ActionLeft,
		},
		{
			name:     "powerup lined up",
			snap:     drillAt(sim.PhaseVertical, 400, 200, sim.Obstacle{Pos: core.Vec2{X: 405, Y: 350}, Kind: sim.KindPowerup, Radius: 10}),
			expected: core.ActionNone,
		},
		{
			name:     "geosteer around rock below",
			snap:     drillAt(sim.PhaseHorizontal, 200, 540, sim.Obstacle{Pos: core.Vec2{X: 400, Y: 560}, Kind: sim.KindRock, Radius: 30}),
			expected: core.ActionUp,
		},
		{
			name:     "geosteer towards coin",
			snap:     drillAt(sim.PhaseHorizontal, 200, 540, sim.Obstacle{Pos: core.Vec2{X: 400, Y: 700}, Kind: sim.KindCoin, Radius: 8}),
			expected: core.ActionDown,
		},
		{
			name:     "terminal phase",
			snap:     drillAt(sim.PhaseWin, 200, 540, sim.Obstacle{Pos: core.Vec2{X: 220, Y: 540}, Kind: sim.KindRock, Radius: 30}),
			expected: core.ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := autopilot(tt.snap); got != tt.expected {
				t.Errorf("autopilot() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
