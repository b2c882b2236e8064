package sim

import (
	"testing"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
)

func TestObjectiveWin(t *testing.T) {
	s, cues := newTestSim(t, func(cfg *config.DrillConfig) {
		cfg.Objective.Droplets = 2
	})
	toHorizontal(t, s)

	p := s.Player().Pos
	s.spawn(KindCoin, core.Vec2{X: p.X + 5, Y: p.Y}, 20)
	s.Step()
	if s.Phase() != PhaseHorizontal {
		t.Fatalf("Phase() = %v after one droplet, expected HORIZONTAL", s.Phase())
	}

	s.spawn(KindCoin, core.Vec2{X: p.X + 5, Y: p.Y}, 20)
	s.Step()
	if s.Phase() != PhaseWin {
		t.Fatalf("Phase() = %v after two droplets, expected WIN", s.Phase())
	}
	if cues.count("play:win") != 1 {
		t.Errorf("win cues = %d, expected 1", cues.count("play:win"))
	}
}

func TestObjectiveDisabledTarget(t *testing.T) {
	s, _ := newTestSim(t, func(cfg *config.DrillConfig) {
		cfg.Objective.Droplets = 0
		cfg.Objective.TimeLimitSeconds = 0
	})
	toHorizontal(t, s)

	p := s.Player().Pos
	s.spawn(KindCoin, core.Vec2{X: p.X + 5, Y: p.Y}, 20)
	for range 10000 {
		s.Step()
	}
	if s.Phase() != PhaseHorizontal {
		t.Errorf("Phase() = %v, expected endless HORIZONTAL", s.Phase())
	}
}

func TestCountdownExpiry(t *testing.T) {
	s, cues := newTestSim(t, func(cfg *config.DrillConfig) {
		cfg.Objective.TimeLimitSeconds = 3
	})
	toHorizontal(t, s)

	if got := s.Objective().SecondsLeft(); got != 3 {
		t.Errorf("SecondsLeft() on entry = %d, expected 3", got)
	}

	for range 179 {
		s.Step()
	}
	if s.Phase() != PhaseHorizontal {
		t.Fatalf("Phase() = %v before time is up, expected HORIZONTAL", s.Phase())
	}
	if got := s.Objective().SecondsLeft(); got != 1 {
		t.Errorf("SecondsLeft() = %d one tick before expiry, expected 1", got)
	}

	s.Step()
	if s.Phase() != PhaseGameOver {
		t.Fatalf("Phase() = %v at expiry, expected GAME_OVER", s.Phase())
	}
	if got := cues.count("play:countdown_tick"); got != 2 {
		t.Errorf("countdown ticks = %d, expected 2", got)
	}
	if cues.count("play:lose") != 1 {
		t.Errorf("lose cues = %d, expected 1", cues.count("play:lose"))
	}
}

func TestCountdownWarningWindow(t *testing.T) {
	s, cues := newTestSim(t, func(cfg *config.DrillConfig) {
		cfg.Objective.TimeLimitSeconds = 30
	})
	toHorizontal(t, s)

	for range 30 * 60 {
		s.Step()
	}
	if s.Phase() != PhaseGameOver {
		t.Fatalf("Phase() = %v, expected GAME_OVER", s.Phase())
	}
	// One tick as each of the last ten seconds begins
	if got := cues.count("play:countdown_tick"); got != 10 {
		t.Errorf("countdown ticks = %d, expected 10", got)
	}
}

func TestObjectiveHelpers(t *testing.T) {
	tests := []struct {
		name    string
		o       Objective
		met     bool
		expired bool
		secs    int
	}{
		{"fresh", Objective{Target: 5, TimeLimit: 90, Remaining: 90}, false, false, 90},
		{"met", Objective{Target: 5, Collected: 5, TimeLimit: 90, Remaining: 1.2}, true, false, 2},
		{"expired", Objective{Target: 5, TimeLimit: 90, Remaining: 0}, false, true, 0},
		{"no target", Objective{Target: 0, Collected: 9}, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.Met(); got != tt.met {
				t.Errorf("Met() = %v, expected %v", got, tt.met)
			}
			if got := tt.o.Expired(); got != tt.expired {
				t.Errorf("Expired() = %v, expected %v", got, tt.expired)
			}
			if got := tt.o.SecondsLeft(); got != tt.secs {
				t.Errorf("SecondsLeft() = %d, expected %d", got, tt.secs)
			}
		})
	}
}
