// Package sim implements the drilling simulation: a vertical descent that
// dodges rocks and magma, followed by a horizontal geosteering run that
// collects oil droplets. It knows nothing about rendering or timing; a
// driver calls Step at a fixed rate.
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
)

// MaxHealth is the drill's starting health.
const MaxHealth = 100.0

// ErrInvalidViewport is returned for viewports without area.
var ErrInvalidViewport = errors.New("sim: viewport must have positive width and height")

// Options configures a new Simulation.
type Options struct {
	Config        config.DrillConfig
	Viewport      core.Viewport
	Rand          Rand // Nil seeds from Seed
	Seed          int64
	Cues          Cues // Nil discards cues
	DisableSpawns bool
}

// Simulation is the canonical state of one run.
type Simulation struct {
	cfg    config.DrillConfig
	rng    Rand
	cues   Cues
	spawns bool

	vp    core.Viewport
	scale float64

	phase   Phase
	history []Phase

	tick           uint64
	verticalTicks  uint64
	horizontalTick uint64
	score          int
	health         float64
	depth          float64
	scroll         float64

	player    Player
	obstacles []Obstacle
	nextID    uint64
	trail     *trail
	objective Objective

	audio bool // Loops follow the phase while set
	loop  Loop // Currently playing loop, LoopNone when silent
}

// New creates a simulation in the vertical phase.
func New(opts Options) (*Simulation, error) {
	if !opts.Viewport.Valid() {
		return nil, ErrInvalidViewport
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Simulation{
		cfg:       opts.Config,
		rng:       opts.Rand,
		cues:      opts.Cues,
		spawns:    !opts.DisableSpawns,
		phase:     PhaseVertical,
		history:   []Phase{PhaseVertical},
		health:    MaxHealth,
		obstacles: make([]Obstacle, 0, 16),
		trail:     newTrail(opts.Config.Horizontal.TrailLength),
		objective: Objective{
			Target:    opts.Config.Objective.Droplets,
			TimeLimit: opts.Config.Objective.TimeLimitSeconds,
			Remaining: opts.Config.Objective.TimeLimitSeconds,
		},
	}
	if s.rng == nil {
		s.rng = NewRand(opts.Seed)
	}
	if s.cues == nil {
		s.cues = NopCues{}
	}
	s.setViewport(opts.Viewport)
	s.anchorPlayer()
	return s, nil
}

// Phase returns the current phase.
func (s *Simulation) Phase() Phase { return s.phase }

// History returns every phase entered, in order.
func (s *Simulation) History() []Phase {
	return append([]Phase(nil), s.history...)
}

// Score returns the current score.
func (s *Simulation) Score() int { return s.score }

// Health returns the current health in [0, MaxHealth].
func (s *Simulation) Health() float64 { return s.health }

// Depth returns the drilled depth.
func (s *Simulation) Depth() float64 { return s.depth }

// Tick returns the number of simulated ticks.
func (s *Simulation) Tick() uint64 { return s.tick }

// Objective returns the droplet objective.
func (s *Simulation) Objective() Objective { return s.objective }

// Player returns a copy of the drill state.
func (s *Simulation) Player() Player { return s.player }

// Viewport returns the viewport the simulation runs in.
func (s *Simulation) Viewport() core.Viewport { return s.vp }

// TickDuration returns the simulated seconds per tick.
func (s *Simulation) TickDuration() float64 {
	return 1.0 / float64(s.cfg.Loop.TickRate)
}

// Elapsed returns simulated seconds since the run started.
func (s *Simulation) Elapsed() float64 {
	return float64(s.tick) * s.TickDuration()
}

// Step advances the simulation by one tick. Terminal phases do not change.
func (s *Simulation) Step() {
	switch s.phase {
	case PhaseVertical:
		s.tick++
		s.stepVertical()
	case PhaseHorizontal:
		s.tick++
		s.stepHorizontal()
	}
}

// Press starts steering in the action's direction along the active axis.
// Non-directional actions and the inactive axis are ignored.
func (s *Simulation) Press(a core.Action) {
	axis, dir := a.Direction()
	switch {
	case s.phase == PhaseVertical && axis == core.AxisX:
		s.player.VX = dir
	case s.phase == PhaseHorizontal && axis == core.AxisY:
		s.player.VY = dir
	}
}

// Release stops steering along the action's axis.
func (s *Simulation) Release(a core.Action) {
	axis, _ := a.Direction()
	switch axis {
	case core.AxisX:
		s.player.VX = 0
	case core.AxisY:
		s.player.VY = 0
	}
}

// ClearIntent stops all steering.
func (s *Simulation) ClearIntent() {
	s.player.VX = 0
	s.player.VY = 0
}

// Resize rescales the simulation to a new viewport and re-anchors the drill.
// Obstacles keep their positions.
func (s *Simulation) Resize(vp core.Viewport) error {
	if !vp.Valid() {
		return ErrInvalidViewport
	}
	s.setViewport(vp)
	s.anchorPlayer()
	return nil
}

// StartAudio starts the loop that belongs to the current phase. Until
// StopAudio, phase changes swap loops as they happen.
func (s *Simulation) StartAudio() {
	s.audio = true
	s.syncLoop()
}

// StopAudio stops any running loop.
func (s *Simulation) StopAudio() {
	s.audio = false
	s.syncLoop()
}

// ActiveLoop returns the loop currently playing.
func (s *Simulation) ActiveLoop() Loop { return s.loop }

func (s *Simulation) syncLoop() {
	want := LoopNone
	if s.audio {
		want = loopFor(s.phase)
	}
	s.switchLoop(want)
}

func (s *Simulation) switchLoop(l Loop) {
	if s.loop == l {
		return
	}
	if s.loop != LoopNone {
		s.cues.StopLoop(s.loop)
	}
	s.loop = l
	if l != LoopNone {
		s.cues.StartLoop(l)
	}
}

func (s *Simulation) setViewport(vp core.Viewport) {
	s.vp = vp
	s.scale = vp.Scale(s.cfg.ReferenceHeight)

	switch s.phase {
	case PhaseHorizontal, PhaseTransition:
		size := s.cfg.Horizontal.PlayerSize * s.scale
		s.player.HalfW = size / 2
		s.player.HalfH = size / 2
	default:
		s.player.HalfW = s.cfg.Player.Width * s.scale / 2
		s.player.HalfH = s.cfg.Player.Height * s.scale / 2
	}
}

// anchorPlayer places the drill at its phase's home position.
func (s *Simulation) anchorPlayer() {
	switch s.phase {
	case PhaseHorizontal, PhaseTransition:
		s.player.Pos.X = s.cfg.Horizontal.EntryX * s.vp.W
		if s.player.Pos.Y == 0 {
			s.player.Pos.Y = s.vp.H / 2
		}
		s.player.Pos.Y = core.ClampF(s.player.Pos.Y, s.laneTop(), s.laneBottom())
	default:
		s.player.Pos.X = s.vp.W / 2
		s.player.Pos.Y = s.cfg.Vertical.PlayerAnchor * s.vp.H
	}
}

func (s *Simulation) laneTop() float64    { return s.cfg.Horizontal.LaneTop * s.vp.H }
func (s *Simulation) laneBottom() float64 { return s.cfg.Horizontal.LaneBottom * s.vp.H }

// advance moves to the next phase. Illegal edges are ignored.
func (s *Simulation) advance(to Phase) bool {
	if !s.phase.CanAdvance(to) {
		return false
	}
	s.phase = to
	s.history = append(s.history, to)
	s.syncLoop()

	switch to {
	case PhaseTransition:
		s.cues.Play(CueTransition)
	case PhaseWin:
		s.cues.Play(CueWin)
	case PhaseGameOver:
		s.cues.Play(CueLose)
	}
	return true
}

// addScore adds points, saturating at math.MaxInt32.
func (s *Simulation) addScore(n int) {
	if n <= 0 {
		return
	}
	if s.score > math.MaxInt32-n {
		s.score = math.MaxInt32
		return
	}
	s.score += n
}

// damage removes health and reports whether the drill was destroyed.
func (s *Simulation) damage(amount float64) bool {
	if amount > 0 {
		s.health = core.ClampF(s.health-amount, 0, MaxHealth)
	}
	if s.health <= 0 {
		s.advance(PhaseGameOver)
		return true
	}
	return false
}

func (s *Simulation) spawn(kind Kind, pos core.Vec2, radius float64) {
	s.nextID++
	s.obstacles = append(s.obstacles, Obstacle{
		ID:     s.nextID,
		Pos:    pos,
		Kind:   kind,
		Radius: radius,
	})
}
