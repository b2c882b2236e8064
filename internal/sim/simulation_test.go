package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
)

func TestNewRejectsEmptyViewport(t *testing.T) {
	_, err := New(Options{Config: config.DefaultDrillConfig(), Viewport: core.Viewport{W: 0, H: 600}})
	if !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("New() error = %v, expected ErrInvalidViewport", err)
	}
}

func TestNewInitialState(t *testing.T) {
	s, _ := newTestSim(t, nil)

	if s.Phase() != PhaseVertical {
		t.Errorf("Phase() = %v, expected VERTICAL", s.Phase())
	}
	if s.Health() != MaxHealth {
		t.Errorf("Health() = %v, expected %v", s.Health(), MaxHealth)
	}
	p := s.Player()
	if p.Pos.X != 400 || p.Pos.Y != 270 {
		t.Errorf("player at %v, expected (400, 270)", p.Pos)
	}
	if p.HalfW != 20 || p.HalfH != 30 {
		t.Errorf("half extents = (%v, %v), expected (20, 30)", p.HalfW, p.HalfH)
	}
}

func TestDepthPerTick(t *testing.T) {
	s, _ := newTestSim(t, nil)

	for i := 1; i <= 50; i++ {
		s.Step()
		if want := float64(i) * 0.1; math.Abs(s.Depth()-want) > 1e-9 {
			t.Fatalf("tick %d: Depth() = %v, expected %v", i, s.Depth(), want)
		}
	}
}

func TestTransitionAfterDepth200(t *testing.T) {
	s, cues := newTestSim(t, nil)

	for range 2000 {
		s.Step()
	}
	if s.Phase() != PhaseVertical {
		t.Fatalf("after 2000 ticks Phase() = %v, expected VERTICAL (depth %v)", s.Phase(), s.Depth())
	}

	s.Step()
	if math.Abs(s.Depth()-200.1) > 1e-9 {
		t.Errorf("Depth() = %v, expected 200.1", s.Depth())
	}
	if s.Phase() != PhaseHorizontal {
		t.Fatalf("after 2001 ticks Phase() = %v, expected HORIZONTAL", s.Phase())
	}

	want := []Phase{PhaseVertical, PhaseTransition, PhaseHorizontal}
	got := s.History()
	if len(got) != len(want) {
		t.Fatalf("History() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("History()[%d] = %v, expected %v", i, got[i], want[i])
		}
	}
	if cues.count("play:transition") != 1 {
		t.Errorf("transition cue played %d times, expected 1", cues.count("play:transition"))
	}

	p := s.Player()
	if p.Pos.X != 80 || p.Pos.Y != 540 {
		t.Errorf("player at %v after transition, expected (80, 540)", p.Pos)
	}
	if p.HalfW != 15 {
		t.Errorf("HalfW = %v after transition, expected 15", p.HalfW)
	}

	// HORIZONTAL is entered once
	for range 100 {
		s.Step()
	}
	n := 0
	for _, ph := range s.History() {
		if ph == PhaseHorizontal {
			n++
		}
	}
	if n != 1 {
		t.Errorf("HORIZONTAL entered %d times, expected 1", n)
	}
}

func TestTransitionClearsObstacles(t *testing.T) {
	s, _ := newTestSim(t, nil)
	for range 1990 {
		s.Step()
	}
	s.spawn(KindRock, core.Vec2{X: 10, Y: 900}, 40)
	s.Press(core.ActionLeft)

	toHorizontal(t, s)
	snap := s.Snapshot()
	if len(snap.Obstacles) != 0 {
		t.Errorf("obstacles after transition = %d, expected 0", len(snap.Obstacles))
	}
	if snap.Player.VX != 0 || snap.Player.VY != 0 {
		t.Errorf("intent after transition = (%d, %d), expected (0, 0)", snap.Player.VX, snap.Player.VY)
	}
}

func TestVerticalLaneClamp(t *testing.T) {
	tests := []struct {
		name   string
		action core.Action
		wantX  float64
	}{
		{"hold left", core.ActionLeft, 20},
		{"hold right", core.ActionRight, 780},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSim(t, nil)
			s.Press(tt.action)
			for range 300 {
				s.Step()
				p := s.Player()
				if p.Pos.X < p.HalfW || p.Pos.X > testViewport.W-p.HalfW {
					t.Fatalf("player x %v left the shaft", p.Pos.X)
				}
			}
			if got := s.Player().Pos.X; got != tt.wantX {
				t.Errorf("player x = %v, expected %v", got, tt.wantX)
			}
		})
	}
}

func TestHorizontalLaneClamp(t *testing.T) {
	s, _ := newTestSim(t, nil)
	toHorizontal(t, s)

	r := rand.New(rand.NewSource(7))
	actions := []core.Action{core.ActionUp, core.ActionDown}
	for i := range 600 {
		if i%25 == 0 {
			s.Press(actions[r.Intn(2)])
		}
		s.Step()
		y := s.Player().Pos.Y
		if y < 108 || y > 972 {
			t.Fatalf("tick %d: player y %v outside [108, 972]", i, y)
		}
	}

	s.Press(core.ActionUp)
	for range 200 {
		s.Step()
	}
	if y := s.Player().Pos.Y; y != 108 {
		t.Errorf("player y = %v after holding up, expected 108", y)
	}
}

func TestPressIgnoresInactiveAxis(t *testing.T) {
	s, _ := newTestSim(t, nil)
	s.Press(core.ActionUp)
	if s.Player().VY != 0 {
		t.Errorf("VY = %d in VERTICAL, expected 0", s.Player().VY)
	}
	s.Press(core.ActionRight)
	s.Press(core.ActionConfirm)
	if s.Player().VX != 1 {
		t.Errorf("VX = %d, expected 1", s.Player().VX)
	}
	s.Release(core.ActionLeft)
	if s.Player().VX != 0 {
		t.Errorf("VX = %d after release, expected 0", s.Player().VX)
	}
}

func TestVerticalRockDamageContinuous(t *testing.T) {
	s, cues := newTestSim(t, nil)
	s.spawn(KindRock, s.Player().Pos, 40)

	s.Step()
	if s.Health() != 99.5 {
		t.Errorf("Health() = %v after one overlapping tick, expected 99.5", s.Health())
	}
	s.Step()
	if s.Health() != 99 {
		t.Errorf("Health() = %v after two overlapping ticks, expected 99", s.Health())
	}
	if len(s.Snapshot().Obstacles) != 1 {
		t.Error("rock should stay after a vertical hit")
	}
	if cues.count("play:rock_hit") != 2 {
		t.Errorf("rock_hit cues = %d, expected 2", cues.count("play:rock_hit"))
	}
}

func TestVerticalMagmaDamage(t *testing.T) {
	s, cues := newTestSim(t, nil)
	s.spawn(KindMagma, s.Player().Pos, 30)

	s.Step()
	if s.Health() != 98.5 {
		t.Errorf("Health() = %v, expected 98.5", s.Health())
	}
	if cues.count("play:magma_burn") != 1 {
		t.Errorf("magma_burn cues = %d, expected 1", cues.count("play:magma_burn"))
	}
}

func TestVerticalCollisionReach(t *testing.T) {
	s, _ := newTestSim(t, nil)
	p := s.Player().Pos
	speed := (4 + 0.1*0.005)

	// After scrolling, the rock is 60.5 below the anchor: no contact for r=40, halfW=20
	s.spawn(KindRock, core.Vec2{X: p.X, Y: p.Y + 60.5 + speed}, 40)
	s.Step()
	if s.Health() != MaxHealth {
		t.Errorf("Health() = %v, expected no damage outside reach", s.Health())
	}
}

func TestPowerupCollectedOnce(t *testing.T) {
	s, cues := newTestSim(t, nil)
	s.spawn(KindPowerup, s.Player().Pos, 30)

	s.Step()
	s.Step()
	if s.Score() != 100 {
		t.Errorf("Score() = %d, expected 100", s.Score())
	}
	if s.Health() != MaxHealth {
		t.Errorf("Health() = %v, pickups must not change health", s.Health())
	}
	if len(s.Snapshot().Obstacles) != 0 {
		t.Error("powerup should be removed on pickup")
	}
	if cues.count("play:powerup") != 1 {
		t.Errorf("powerup cues = %d, expected 1", cues.count("play:powerup"))
	}
}

func TestHorizontalRockOneShot(t *testing.T) {
	s, _ := newTestSim(t, nil)
	toHorizontal(t, s)

	p := s.Player().Pos
	s.spawn(KindRock, core.Vec2{X: p.X + 5, Y: p.Y}, 40)

	s.Step()
	if s.Health() != 95 {
		t.Errorf("Health() = %v, expected 95", s.Health())
	}
	if len(s.Snapshot().Obstacles) != 0 {
		t.Error("rock should be removed after a horizontal hit")
	}
	s.Step()
	if s.Health() != 95 {
		t.Errorf("Health() = %v on next tick, expected 95", s.Health())
	}
}

func TestCoinCollection(t *testing.T) {
	s, cues := newTestSim(t, nil)
	toHorizontal(t, s)

	p := s.Player().Pos
	s.spawn(KindCoin, core.Vec2{X: p.X + 5, Y: p.Y}, 20)

	s.Step()
	s.Step()
	if s.Score() != 52 {
		t.Errorf("Score() = %d, expected 52 (two survival ticks plus one coin)", s.Score())
	}
	if got := s.Objective().Collected; got != 1 {
		t.Errorf("Collected = %d, expected 1", got)
	}
	if cues.count("play:coin") != 1 {
		t.Errorf("coin cues = %d, expected 1", cues.count("play:coin"))
	}
	if s.Health() != MaxHealth {
		t.Errorf("Health() = %v, coins must not change health", s.Health())
	}
}

func TestCulling(t *testing.T) {
	t.Run("vertical", func(t *testing.T) {
		s, _ := newTestSim(t, nil)
		s.spawn(KindRock, core.Vec2{X: 700, Y: -99}, 40)
		s.spawn(KindRock, core.Vec2{X: 700, Y: 0}, 40)

		s.Step()
		obs := s.Snapshot().Obstacles
		if len(obs) != 1 {
			t.Fatalf("obstacles = %d, expected 1", len(obs))
		}
		if obs[0].ID != 2 {
			t.Errorf("kept obstacle %d, expected 2", obs[0].ID)
		}
	})

	t.Run("horizontal", func(t *testing.T) {
		s, _ := newTestSim(t, nil)
		toHorizontal(t, s)
		s.spawn(KindCoin, core.Vec2{X: -97, Y: 900}, 20)
		s.spawn(KindRock, core.Vec2{X: -94, Y: 900}, 40)

		s.Step()
		obs := s.Snapshot().Obstacles
		if len(obs) != 1 || obs[0].Kind != KindRock {
			t.Fatalf("obstacles = %+v, expected only the rock", obs)
		}
		if s.Objective().Missed != 1 {
			t.Errorf("Missed = %d, expected 1", s.Objective().Missed)
		}
	})
}

func TestGameOverOnZeroHealth(t *testing.T) {
	s, cues := newTestSim(t, nil)
	s.health = 0.4
	s.spawn(KindRock, s.Player().Pos, 40)

	s.Step()
	if s.Health() != 0 {
		t.Errorf("Health() = %v, expected clamp to 0", s.Health())
	}
	if s.Phase() != PhaseGameOver {
		t.Fatalf("Phase() = %v, expected GAME_OVER", s.Phase())
	}
	if cues.count("play:lose") != 1 {
		t.Errorf("lose cues = %d, expected 1", cues.count("play:lose"))
	}

	tick := s.Tick()
	s.Step()
	if s.Tick() != tick {
		t.Error("Step() after GAME_OVER should not advance")
	}
}

func TestMonotonicAccumulators(t *testing.T) {
	cfg := config.DefaultDrillConfig()
	cfg.Vertical.SpawnChance = 0.3
	cfg.Horizontal.SpawnChance = 0.3

	s, err := New(Options{Config: cfg, Viewport: testViewport, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}

	steer := rand.New(rand.NewSource(1))
	actions := []core.Action{core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown}
	prevHealth, prevScore := s.Health(), s.Score()
	for i := 0; i < 8000 && !s.Phase().IsTerminal(); i++ {
		if i%10 == 0 {
			s.Press(actions[steer.Intn(len(actions))])
		}
		s.Step()

		if s.Health() > prevHealth {
			t.Fatalf("tick %d: health rose %v -> %v", i, prevHealth, s.Health())
		}
		if s.Health() < 0 || s.Health() > MaxHealth {
			t.Fatalf("tick %d: health %v out of range", i, s.Health())
		}
		if s.Score() < prevScore {
			t.Fatalf("tick %d: score fell %d -> %d", i, prevScore, s.Score())
		}
		prevHealth, prevScore = s.Health(), s.Score()
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		s, err := New(Options{Config: config.DefaultDrillConfig(), Viewport: testViewport, Seed: 12345})
		if err != nil {
			t.Fatal(err)
		}
		for i := range 2500 {
			if i%40 == 0 {
				s.Press(core.ActionLeft)
			}
			if i%40 == 20 {
				s.Press(core.ActionRight)
			}
			s.Step()
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	if a.Score != b.Score || a.Health != b.Health || a.Phase != b.Phase || a.Tick != b.Tick {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
	if len(a.Obstacles) != len(b.Obstacles) {
		t.Fatalf("obstacle counts differ: %d vs %d", len(a.Obstacles), len(b.Obstacles))
	}
	for i := range a.Obstacles {
		if a.Obstacles[i] != b.Obstacles[i] {
			t.Errorf("obstacle %d differs: %+v vs %+v", i, a.Obstacles[i], b.Obstacles[i])
		}
	}
}

func TestScoreSaturates(t *testing.T) {
	s, _ := newTestSim(t, nil)
	s.score = math.MaxInt32 - 10
	s.addScore(50)
	if s.Score() != math.MaxInt32 {
		t.Errorf("Score() = %d, expected %d", s.Score(), math.MaxInt32)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s, _ := newTestSim(t, nil)
	s.spawn(KindRock, core.Vec2{X: 100, Y: 900}, 40)

	snap := s.Snapshot()
	snap.Obstacles[0].Pos.X = -1000
	snap.Player.Pos.X = -1000

	if s.Snapshot().Obstacles[0].Pos.X != 100 {
		t.Error("mutating a snapshot changed simulation obstacles")
	}
	if s.Player().Pos.X == -1000 {
		t.Error("mutating a snapshot changed the player")
	}
}

func TestResize(t *testing.T) {
	s, _ := newTestSim(t, nil)
	s.Press(core.ActionLeft)
	for range 20 {
		s.Step()
	}

	if err := s.Resize(core.Viewport{W: 1000, H: 540}); err != nil {
		t.Fatal(err)
	}
	p := s.Player()
	if p.Pos.X != 500 || p.Pos.Y != 135 {
		t.Errorf("vertical re-anchor = %v, expected (500, 135)", p.Pos)
	}
	if p.HalfW != 10 {
		t.Errorf("HalfW = %v at half scale, expected 10", p.HalfW)
	}

	toHorizontal(t, s)
	s.Press(core.ActionDown)
	for range 100 {
		s.Step()
	}
	if err := s.Resize(core.Viewport{W: 400, H: 300}); err != nil {
		t.Fatal(err)
	}
	p = s.Player()
	if p.Pos.X != 40 {
		t.Errorf("horizontal re-anchor x = %v, expected 40", p.Pos.X)
	}
	if p.Pos.Y < 30 || p.Pos.Y > 270 {
		t.Errorf("horizontal y %v not clamped into [30, 270]", p.Pos.Y)
	}

	if err := s.Resize(core.Viewport{}); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("Resize(empty) = %v, expected ErrInvalidViewport", err)
	}
}

func TestVerticalSpawnKinds(t *testing.T) {
	tests := []struct {
		name       string
		rolls      []float64
		wantKind   Kind
		wantRadius float64
	}{
		// spawn, x, magma roll, powerup roll, rock radius
		{"rock", []float64{0.01, 0.5, 0.1, 0.1, 0.5}, KindRock, 55},
		{"magma", []float64{0.01, 0.5, 0.9}, KindMagma, 30},
		{"powerup", []float64{0.01, 0.5, 0.1, 0.95}, KindPowerup, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultDrillConfig()
			s, err := New(Options{
				Config:   cfg,
				Viewport: testViewport,
				Rand:     &scriptRand{values: tt.rolls, fallback: 0.99},
			})
			if err != nil {
				t.Fatal(err)
			}
			s.Step()

			obs := s.Snapshot().Obstacles
			if len(obs) != 1 {
				t.Fatalf("obstacles = %d, expected 1", len(obs))
			}
			o := obs[0]
			if o.Kind != tt.wantKind {
				t.Errorf("Kind = %v, expected %v", o.Kind, tt.wantKind)
			}
			if o.Radius != tt.wantRadius {
				t.Errorf("Radius = %v, expected %v", o.Radius, tt.wantRadius)
			}
			if o.Pos.X != 400 {
				t.Errorf("X = %v, expected 400", o.Pos.X)
			}
			wantY := 1080 + tt.wantRadius + 100 - (4 + 0.1*0.005)
			if math.Abs(o.Pos.Y-wantY) > 1e-9 {
				t.Errorf("Y = %v, expected %v", o.Pos.Y, wantY)
			}
		})
	}
}

func TestHorizontalSpawnKinds(t *testing.T) {
	s, _ := newTestSim(t, nil)
	toHorizontal(t, s)

	s.spawns = true
	s.rng = &scriptRand{values: []float64{0.01, 0.5, 0.1, 0.01, 0.0, 0.9}, fallback: 0.99}
	s.Step()
	s.Step()

	obs := s.Snapshot().Obstacles
	if len(obs) != 2 {
		t.Fatalf("obstacles = %d, expected 2", len(obs))
	}
	if obs[0].Kind != KindCoin || obs[0].Radius != 20 || obs[0].Pos.Y != 540 {
		t.Errorf("first spawn = %+v, expected coin r=20 at y=540", obs[0])
	}
	if obs[1].Kind != KindRock || obs[1].Radius != 40 || obs[1].Pos.Y != 270 {
		t.Errorf("second spawn = %+v, expected rock r=40 at y=270", obs[1])
	}
	if wantX := 800 + 100 - 5.0; obs[1].Pos.X != wantX {
		t.Errorf("rock x = %v, expected %v", obs[1].Pos.X, wantX)
	}
	if s.Objective().Spawned != 1 {
		t.Errorf("Spawned = %d, expected 1", s.Objective().Spawned)
	}
}
