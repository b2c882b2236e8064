package sim

import (
	"testing"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
)

// testViewport has scale 1 so logical sizes equal pixels.
var testViewport = core.Viewport{W: 800, H: 1080}

// recordingCues logs every cue event as "play:x", "start:x" or "stop:x".
type recordingCues struct {
	events []string
}

func (r *recordingCues) Play(c Cue)       { r.events = append(r.events, "play:"+c.String()) }
func (r *recordingCues) StartLoop(l Loop) { r.events = append(r.events, "start:"+l.String()) }
func (r *recordingCues) StopLoop(l Loop)  { r.events = append(r.events, "stop:"+l.String()) }

func (r *recordingCues) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

// scriptRand returns scripted values, then fallback forever.
type scriptRand struct {
	values   []float64
	fallback float64
}

func (r *scriptRand) Float64() float64 {
	if len(r.values) == 0 {
		return r.fallback
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func newTestSim(t *testing.T, mutate func(cfg *config.DrillConfig)) (*Simulation, *recordingCues) {
	t.Helper()

	cfg := config.DefaultDrillConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	cues := &recordingCues{}
	s, err := New(Options{
		Config:        cfg,
		Viewport:      testViewport,
		Cues:          cues,
		DisableSpawns: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, cues
}

// toHorizontal steps a spawn-free simulation into geosteering.
func toHorizontal(t *testing.T, s *Simulation) {
	t.Helper()
	for i := 0; i < 10000 && s.Phase() == PhaseVertical; i++ {
		s.Step()
	}
	if s.Phase() != PhaseHorizontal {
		t.Fatalf("Phase() = %v, expected HORIZONTAL", s.Phase())
	}
}
