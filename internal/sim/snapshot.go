package sim

import "github.com/vovakirdan/oil-strike/internal/core"

// Snapshot is an immutable copy of the simulation for rendering. It shares
// no memory with the live state.
type Snapshot struct {
	Tick      uint64
	Phase     Phase
	Score     int
	Health    float64
	Depth     float64
	Scroll    float64 // Total distance scrolled in the current phase
	Elapsed   float64 // Seconds
	Viewport  core.Viewport
	Scale     float64
	Player    Player
	Obstacles []Obstacle
	Trail     []core.Vec2 // Oldest first
	Objective Objective
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	obstacles := make([]Obstacle, len(s.obstacles))
	copy(obstacles, s.obstacles)

	return Snapshot{
		Tick:      s.tick,
		Phase:     s.phase,
		Score:     s.score,
		Health:    s.health,
		Depth:     s.depth,
		Scroll:    s.scroll,
		Elapsed:   s.Elapsed(),
		Viewport:  s.vp,
		Scale:     s.scale,
		Player:    s.player,
		Obstacles: obstacles,
		Trail:     s.trail.points(),
		Objective: s.objective,
	}
}

// Count returns how many obstacles of a kind are live.
func (sn Snapshot) Count(k Kind) int {
	n := 0
	for _, o := range sn.Obstacles {
		if o.Kind == k {
			n++
		}
	}
	return n
}
