package sim

import "github.com/vovakirdan/oil-strike/internal/core"

// scrollSpeed returns how far obstacles rise this tick. It grows with depth.
func (s *Simulation) scrollSpeed() float64 {
	v := s.cfg.Vertical
	return (v.BaseScrollSpeed + s.depth*v.ScrollPerDepth) * s.scale
}

// stepVertical advances the descent by one tick.
func (s *Simulation) stepVertical() {
	v := s.cfg.Vertical

	// Depth is derived from the tick count so it does not drift
	s.verticalTicks++
	s.depth = float64(s.verticalTicks) * v.DepthPerTick
	speed := s.scrollSpeed()
	s.scroll += speed

	if s.spawns {
		s.spawnVertical()
	}

	// Steer, keeping the whole drill inside the shaft
	s.player.Pos.X += float64(s.player.VX) * v.MoveSpeed * s.scale
	s.player.Pos.X = core.ClampF(s.player.Pos.X, s.player.HalfW, s.vp.W-s.player.HalfW)
	s.player.Pos.Y = v.PlayerAnchor * s.vp.H

	kept := s.obstacles[:0]
	for i, o := range s.obstacles {
		o.Pos.Y -= speed

		if core.CircleHit(o.Pos, o.Radius, s.player.Pos, s.player.HalfW) {
			switch o.Kind {
			case KindRock, KindMagma:
				cue, amount := CueRockHit, v.RockDamage
				if o.Kind == KindMagma {
					cue, amount = CueMagmaBurn, v.MagmaDamage
				}
				s.cues.Play(cue)
				if s.damage(amount) {
					s.obstacles[i] = o
					s.obstacles = append(kept, s.obstacles[i:]...)
					return
				}
			case KindPowerup:
				s.addScore(v.PowerupScore)
				s.cues.Play(CuePowerup)
				continue
			}
		}

		if o.Pos.Y < -v.CullMargin {
			continue
		}
		kept = append(kept, o)
	}
	s.obstacles = kept

	if s.depth > v.TransitionDepth {
		s.enterHorizontal()
	}
}

// spawnVertical rolls for a new obstacle below the screen.
func (s *Simulation) spawnVertical() {
	v := s.cfg.Vertical
	if s.rng.Float64() >= v.SpawnChance {
		return
	}

	x := s.rng.Float64() * s.vp.W

	kind := KindRock
	if s.rng.Float64() > 1-v.MagmaChance {
		kind = KindMagma
	} else if s.rng.Float64() > 1-v.PowerupChance {
		kind = KindPowerup
	}

	radius := v.HazardRadius * s.scale
	if kind == KindRock {
		radius = (v.RockMinRadius + s.rng.Float64()*(v.RockMaxRadius-v.RockMinRadius)) * s.scale
	}

	s.spawn(kind, core.Vec2{X: x, Y: s.vp.H + radius + v.SpawnMargin}, radius)
}

// enterHorizontal performs the transition into geosteering.
func (s *Simulation) enterHorizontal() {
	if !s.advance(PhaseTransition) {
		return
	}

	s.obstacles = s.obstacles[:0]
	s.trail.reset()
	s.ClearIntent()
	s.scroll = 0
	s.objective.Remaining = s.objective.TimeLimit

	s.setViewport(s.vp)
	s.player.Pos = core.Vec2{X: s.cfg.Horizontal.EntryX * s.vp.W, Y: s.vp.H / 2}

	s.advance(PhaseHorizontal)
}
