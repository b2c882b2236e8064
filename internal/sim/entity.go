package sim

import "github.com/vovakirdan/oil-strike/internal/core"

// Kind identifies what an obstacle is. It never changes after spawn.
type Kind int

const (
	KindRock    Kind = iota // Damages the drill
	KindMagma               // Burns the drill while overlapping
	KindPowerup             // Bonus score during descent
	KindCoin                // Oil droplet during geosteering
)

func (k Kind) String() string {
	switch k {
	case KindRock:
		return "rock"
	case KindMagma:
		return "magma"
	case KindPowerup:
		return "powerup"
	case KindCoin:
		return "coin"
	default:
		return "unknown"
	}
}

// IsPickup reports whether touching the obstacle collects it.
func (k Kind) IsPickup() bool {
	return k == KindPowerup || k == KindCoin
}

// Obstacle is a circular entity scrolling past the drill.
type Obstacle struct {
	ID     uint64
	Pos    core.Vec2 // Centre
	Kind   Kind
	Radius float64
}

// Player is the drill head. VX and VY are steering intents in {-1, 0, 1}.
type Player struct {
	Pos   core.Vec2
	VX    int
	VY    int
	HalfW float64
	HalfH float64
}
