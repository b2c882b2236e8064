package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/sim"
)

// steerStep holds one action for a number of ticks.
type steerStep struct {
	action core.Action
	ticks  int
}

var steerLetters = map[byte]core.Action{
	'L': core.ActionLeft,
	'R': core.ActionRight,
	'U': core.ActionUp,
	'D': core.ActionDown,
	'N': core.ActionNone,
}

// parseSteer parses a comma-separated pattern such as "L30,N10,R30".
// Each token is a direction letter (L, R, U, D or N for none) followed by a
// tick count. An empty pattern means no steering.
func parseSteer(s string) ([]steerStep, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var steps []steerStep
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if len(tok) < 2 {
			return nil, fmt.Errorf("steer: bad step %q", tok)
		}
		action, ok := steerLetters[tok[0]]
		if !ok {
			return nil, fmt.Errorf("steer: unknown direction %q in %q", tok[0], tok)
		}
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("steer: bad tick count in %q", tok)
		}
		steps = append(steps, steerStep{action: action, ticks: n})
	}
	return steps, nil
}

// actionAt returns the action held on tick t. The pattern repeats.
func actionAt(steps []steerStep, t int) core.Action {
	period := 0
	for _, s := range steps {
		period += s.ticks
	}
	if period == 0 {
		return core.ActionNone
	}

	pos := t % period
	for _, s := range steps {
		if pos < s.ticks {
			return s.action
		}
		pos -= s.ticks
	}
	return core.ActionNone
}

// Autopilot look-ahead and clearance in reference pixels.
const (
	lookAhead = 320.0
	clearance = 12.0
)

// autopilot picks a steering action from a snapshot: dodge the closest
// hazard ahead, otherwise chase the closest pickup.
func autopilot(snap sim.Snapshot) core.Action {
	p := snap.Player
	scale := snap.Scale
	if scale <= 0 {
		scale = 1
	}

	switch snap.Phase {
	case sim.PhaseVertical:
		// Obstacles rise towards the drill
		threat, pickup := closestAhead(snap, func(o sim.Obstacle) (ahead, across float64) {
			return o.Pos.Y - p.Pos.Y, o.Pos.X - p.Pos.X
		}, p.HalfW, scale)
		if threat != nil {
			if threat.Pos.X > p.Pos.X {
				return core.ActionLeft
			}
			return core.ActionRight
		}
		if pickup != nil && math.Abs(pickup.Pos.X-p.Pos.X) > clearance*scale {
			if pickup.Pos.X < p.Pos.X {
				return core.ActionLeft
			}
			return core.ActionRight
		}

	case sim.PhaseHorizontal:
		// Obstacles slide left towards the drill
		threat, pickup := closestAhead(snap, func(o sim.Obstacle) (ahead, across float64) {
			return o.Pos.X - p.Pos.X, o.Pos.Y - p.Pos.Y
		}, p.HalfH, scale)
		if threat != nil {
			if threat.Pos.Y > p.Pos.Y {
				return core.ActionUp
			}
			return core.ActionDown
		}
		if pickup != nil && math.Abs(pickup.Pos.Y-p.Pos.Y) > clearance*scale {
			if pickup.Pos.Y < p.Pos.Y {
				return core.ActionUp
			}
			return core.ActionDown
		}
	}
	return core.ActionNone
}

// closestAhead returns the nearest hazard on a collision course and the
// nearest pickup within the look-ahead. axes maps an obstacle to its
// distance along and across the direction of travel.
func closestAhead(snap sim.Snapshot, axes func(sim.Obstacle) (float64, float64), half, scale float64) (threat, pickup *sim.Obstacle) {
	bestThreat, bestPickup := math.Inf(1), math.Inf(1)
	for i := range snap.Obstacles {
		o := &snap.Obstacles[i]
		ahead, across := axes(*o)
		if ahead < -o.Radius || ahead > lookAhead*scale {
			continue
		}
		if o.Kind.IsPickup() {
			if ahead < bestPickup {
				pickup, bestPickup = o, ahead
			}
			continue
		}
		if math.Abs(across) < o.Radius+half+clearance*scale && ahead < bestThreat {
			threat, bestThreat = o, ahead
		}
	}
	return threat, pickup
}
