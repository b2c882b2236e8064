package sim

import "github.com/vovakirdan/oil-strike/internal/core"

// stepHorizontal advances geosteering by one tick.
func (s *Simulation) stepHorizontal() {
	h := s.cfg.Horizontal

	s.horizontalTick++
	s.addScore(h.SurvivalScore)
	s.scroll += h.ScrollSpeed * s.scale

	if s.spawns {
		s.spawnHorizontal()
	}

	s.player.Pos.Y += float64(s.player.VY) * h.MoveSpeed * s.scale
	s.player.Pos.Y = core.ClampF(s.player.Pos.Y, s.laneTop(), s.laneBottom())
	s.trail.push(s.player.Pos)

	reach := h.PlayerSize * s.scale / 2
	kept := s.obstacles[:0]
	for i, o := range s.obstacles {
		o.Pos.X -= h.ScrollSpeed * s.scale

		if core.CircleHit(o.Pos, o.Radius, s.player.Pos, reach) {
			switch o.Kind {
			case KindRock:
				s.cues.Play(CueRockHit)
				if s.damage(h.RockDamage) {
					s.obstacles = append(kept, s.obstacles[i+1:]...)
					return
				}
				continue
			case KindCoin:
				s.addScore(h.CoinScore)
				s.objective.Collected++
				s.cues.Play(CueCoin)
				continue
			}
		}

		if o.Pos.X < -h.CullMargin {
			if o.Kind == KindCoin {
				s.objective.Missed++
			}
			continue
		}
		kept = append(kept, o)
	}
	s.obstacles = kept

	s.updateObjective()
}

// spawnHorizontal rolls for a new obstacle past the right edge.
func (s *Simulation) spawnHorizontal() {
	h := s.cfg.Horizontal
	if s.rng.Float64() >= h.SpawnChance {
		return
	}

	y := (h.CorridorTop + s.rng.Float64()*(h.CorridorBottom-h.CorridorTop)) * s.vp.H

	kind, radius := KindCoin, h.CoinRadius*s.scale
	if s.rng.Float64() > 1-h.RockChance {
		kind, radius = KindRock, h.RockRadius*s.scale
	} else {
		s.objective.Spawned++
	}

	s.spawn(kind, core.Vec2{X: s.vp.W + h.SpawnMargin, Y: y}, radius)
}

// updateObjective runs the countdown and decides win or loss.
func (s *Simulation) updateObjective() {
	o := &s.objective

	if o.Met() {
		s.advance(PhaseWin)
		return
	}
	if o.TimeLimit <= 0 {
		return
	}

	before := o.SecondsLeft()
	// Derived from the tick count so the countdown does not drift
	o.Remaining = o.TimeLimit - float64(s.horizontalTick)*s.TickDuration()
	if o.Remaining < 1e-9 {
		o.Remaining = 0
	}

	if o.Expired() {
		s.advance(PhaseGameOver)
		return
	}

	after := o.SecondsLeft()
	if after < before && float64(after) <= s.cfg.Objective.CountdownWarning {
		s.cues.Play(CueCountdownTick)
	}
}
