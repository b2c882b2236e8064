// Package loop drives a simulation from host frame callbacks. It converts
// wall time into fixed simulation ticks, gates on pause and surface
// availability, and publishes a throttled HUD.
package loop

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/sim"
)

// HUD is the published summary shown around the play field.
type HUD struct {
	Score    int
	Depth    float64
	Health   float64
	Phase    sim.Phase
	TimeLeft int // Whole seconds, 0 when the countdown is off
	Droplets int
	Target   int
	Paused   bool
}

// Result describes a finished run.
type Result struct {
	Outcome  sim.Phase
	Score    int
	Depth    float64
	Droplets int
	Duration time.Duration // Simulated time
	Ticks    uint64
}

// Surface is where frames are drawn. Viewport reports false while the
// surface cannot be drawn on (not yet sized, minimised, detached).
type Surface interface {
	Viewport() (core.Viewport, bool)
	Draw(snap sim.Snapshot, hud HUD)
}

// ResettableSurface is a Surface that rebuilds its buffers on resize.
type ResettableSurface interface {
	Surface
	Reset(vp core.Viewport)
}

// Publisher receives the throttled HUD.
type Publisher interface {
	Publish(hud HUD)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(HUD)

// Publish calls f(hud).
func (f PublisherFunc) Publish(hud HUD) { f(hud) }

// Recorder receives one steering command per simulated tick.
type Recorder interface {
	Record(dtMs, angleDeg, throttle float64)
}

// Options configures a Driver.
type Options struct {
	Config        config.DrillConfig
	Surface       Surface
	Scheduler     Scheduler
	Clock         Clock     // Nil uses the wall clock
	Cues          sim.Cues  // Nil discards cues
	Rand          sim.Rand  // Nil seeds from Seed
	Seed          int64
	DisableSpawns bool
	Publisher     Publisher    // Optional
	Recorder      Recorder     // Optional
	OnFinish      func(Result) // Called once when the run ends
	Logger        *log.Logger
}

// Driver runs one simulation. All methods must be called from the host's
// frame thread.
type Driver struct {
	opts    Options
	cfg     config.DrillConfig
	surface Surface
	sched   Scheduler
	clock   Clock
	logger  *log.Logger

	sim *sim.Simulation
	vp  core.Viewport

	pending  FrameID
	stopped  bool
	paused   bool
	finished bool

	tickDur time.Duration
	last    time.Time
	acc     time.Duration

	frames  uint64
	skipped uint64
	hud     HUD
}

// ErrMissingSurface and ErrMissingScheduler are returned by Start.
var (
	ErrMissingSurface   = errors.New("loop: surface is required")
	ErrMissingScheduler = errors.New("loop: scheduler is required")
)

// Start validates the options and requests the first frame. The simulation
// is created on the first frame with a usable viewport.
func Start(opts Options) (*Driver, error) {
	if opts.Surface == nil {
		return nil, ErrMissingSurface
	}
	if opts.Scheduler == nil {
		return nil, ErrMissingScheduler
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Cues == nil {
		opts.Cues = sim.NopCues{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	d := &Driver{
		opts:    opts,
		cfg:     opts.Config,
		surface: opts.Surface,
		sched:   opts.Scheduler,
		clock:   opts.Clock,
		logger:  opts.Logger,
		tickDur: time.Second / time.Duration(opts.Config.Loop.TickRate),
	}
	d.hud = HUD{
		Health:   sim.MaxHealth,
		Phase:    sim.PhaseVertical,
		TimeLeft: int(opts.Config.Objective.TimeLimitSeconds),
		Target:   opts.Config.Objective.Droplets,
	}

	d.schedule()
	d.logger.Debug("driver started", "tick_rate", opts.Config.Loop.TickRate)
	return d, nil
}

// HUD returns the most recently published HUD.
func (d *Driver) HUD() HUD { return d.hud }

// Snapshot returns the current simulation state. ok is false before the
// first usable frame.
func (d *Driver) Snapshot() (snap sim.Snapshot, ok bool) {
	if d.sim == nil {
		return sim.Snapshot{}, false
	}
	return d.sim.Snapshot(), true
}

// Phase returns the current phase.
func (d *Driver) Phase() sim.Phase {
	if d.sim == nil {
		return sim.PhaseVertical
	}
	return d.sim.Phase()
}

// History returns the phases visited so far, in order.
func (d *Driver) History() []sim.Phase {
	if d.sim == nil {
		return []sim.Phase{sim.PhaseVertical}
	}
	return d.sim.History()
}

// Frames returns how many frames simulated or drew.
func (d *Driver) Frames() uint64 { return d.frames }

// Skipped returns how many frames were skipped for an unavailable surface.
func (d *Driver) Skipped() uint64 { return d.skipped }

// Stopped reports whether Stop was called.
func (d *Driver) Stopped() bool { return d.stopped }

// Finished reports whether the run reached a terminal phase.
func (d *Driver) Finished() bool { return d.finished }

// Press forwards a key-down edge to the simulation.
func (d *Driver) Press(a core.Action) {
	if d.sim == nil || d.stopped {
		return
	}
	d.sim.Press(a)
}

// Release forwards a key-up edge to the simulation.
func (d *Driver) Release(a core.Action) {
	if d.sim == nil || d.stopped {
		return
	}
	d.sim.Release(a)
}

// Paused reports whether the driver is paused.
func (d *Driver) Paused() bool { return d.paused }

// TogglePause flips the pause state.
func (d *Driver) TogglePause() { d.SetPaused(!d.paused) }

// SetPaused pauses or resumes the run. Resuming restarts the frame clock so
// paused time is never simulated.
func (d *Driver) SetPaused(paused bool) {
	if d.stopped || d.finished || d.paused == paused {
		return
	}
	d.paused = paused
	d.last = time.Time{}
	d.acc = 0

	if d.sim != nil {
		if paused {
			d.sim.StopAudio()
		} else {
			d.sim.StartAudio()
		}
	}
	d.publish()
	d.logger.Debug("pause changed", "paused", paused)
}

// Resize rescales the simulation to a new viewport.
func (d *Driver) Resize(vp core.Viewport) {
	if d.stopped || vp == d.vp {
		return
	}
	if d.sim != nil {
		if err := d.sim.Resize(vp); err != nil {
			d.logger.Debug("resize ignored", "err", err)
			return
		}
	}
	d.vp = vp
	if r, ok := d.surface.(ResettableSurface); ok {
		r.Reset(vp)
	}
	d.logger.Debug("viewport resized", "w", vp.W, "h", vp.H)
}

// Stop cancels the pending frame and silences every loop. It is safe to
// call more than once.
func (d *Driver) Stop() {
	if d.stopped {
		return
	}
	d.stopped = true
	d.sched.CancelFrame(d.pending)
	d.pending = 0
	if d.sim != nil {
		d.sim.StopAudio()
	}
	d.logger.Debug("driver stopped", "frames", d.frames, "skipped", d.skipped)
}

func (d *Driver) schedule() {
	d.pending = d.sched.RequestFrame(d.frame)
}

// frame is the scheduler callback.
func (d *Driver) frame() {
	d.pending = 0
	if d.stopped {
		return
	}
	defer func() {
		if !d.stopped {
			d.schedule()
		}
	}()

	if d.paused {
		d.last = time.Time{}
		return
	}

	vp, ok := d.surface.Viewport()
	if !ok || !vp.Valid() {
		d.skipped++
		d.last = time.Time{}
		d.logger.Debug("frame skipped, surface unavailable")
		return
	}

	if d.sim == nil {
		if !d.createSim(vp) {
			return
		}
	} else if vp != d.vp {
		d.Resize(vp)
	}

	phaseChanged := d.advance()
	d.frames++

	if phaseChanged || d.frames%uint64(d.cfg.Loop.PublishEvery) == 0 {
		d.publish()
	}

	d.surface.Draw(d.sim.Snapshot(), d.hud)

	if !d.finished && d.sim.Phase().IsTerminal() {
		d.finish()
	}
}

func (d *Driver) createSim(vp core.Viewport) bool {
	s, err := sim.New(sim.Options{
		Config:        d.cfg,
		Viewport:      vp,
		Rand:          d.opts.Rand,
		Seed:          d.opts.Seed,
		Cues:          d.opts.Cues,
		DisableSpawns: d.opts.DisableSpawns,
	})
	if err != nil {
		d.logger.Error("cannot create simulation", "err", err)
		return false
	}
	d.sim = s
	d.vp = vp
	d.sim.StartAudio()
	d.logger.Info("run started", "phase", d.sim.Phase(), "w", vp.W, "h", vp.H)
	return true
}

// advance converts elapsed time into simulation ticks and reports whether
// the phase changed.
func (d *Driver) advance() bool {
	if d.finished || d.sim.Phase().IsTerminal() {
		d.last, d.acc = time.Time{}, 0
		return false
	}

	now := d.clock.Now()
	if d.last.IsZero() {
		d.last = now
		return false
	}
	d.acc += now.Sub(d.last)
	d.last = now

	ticks := int(d.acc / d.tickDur)
	if limit := d.cfg.Loop.MaxTicksPerFrame; ticks > limit {
		// Too far behind; drop the backlog instead of spiralling
		ticks = limit
		d.acc = 0
	} else {
		d.acc -= time.Duration(ticks) * d.tickDur
	}

	changed := false
	dtMs := float64(d.tickDur) / float64(time.Millisecond)
	for range ticks {
		before, tick := d.sim.Phase(), d.sim.Tick()
		d.sim.Step()
		if d.sim.Tick() != tick {
			d.record(dtMs)
		}

		if after := d.sim.Phase(); after != before {
			changed = true
			d.logger.Info("phase changed", "from", before, "to", after,
				"depth", d.sim.Depth(), "score", d.sim.Score())
		}
		if d.sim.Phase().IsTerminal() {
			break
		}
	}
	return changed
}

// record sends the tick's steering command to the recorder.
func (d *Driver) record(dtMs float64) {
	if d.opts.Recorder == nil {
		return
	}
	p := d.sim.Player()
	throttle := 1.0
	if d.sim.Phase().IsTerminal() {
		throttle = 0
	}
	d.opts.Recorder.Record(dtMs, SteeringAngle(d.sim.Phase(), p), throttle)
}

// SteeringAngle returns the drill heading in degrees: 90 points straight
// down, 0 points along the reservoir. Steering tilts it by 30 degrees.
func SteeringAngle(phase sim.Phase, p sim.Player) float64 {
	switch phase {
	case sim.PhaseVertical:
		return 90 - 30*float64(p.VX)
	case sim.PhaseHorizontal:
		return 30 * float64(p.VY)
	default:
		return 0
	}
}

func (d *Driver) publish() {
	if d.sim != nil {
		obj := d.sim.Objective()
		d.hud = HUD{
			Score:    d.sim.Score(),
			Depth:    d.sim.Depth(),
			Health:   d.sim.Health(),
			Phase:    d.sim.Phase(),
			TimeLeft: obj.SecondsLeft(),
			Droplets: obj.Collected,
			Target:   obj.Target,
		}
	}
	d.hud.Paused = d.paused
	if d.opts.Publisher != nil {
		d.opts.Publisher.Publish(d.hud)
	}
}

func (d *Driver) finish() {
	d.finished = true
	d.sim.StopAudio()

	res := Result{
		Outcome:  d.sim.Phase(),
		Score:    d.sim.Score(),
		Depth:    d.sim.Depth(),
		Droplets: d.sim.Objective().Collected,
		Duration: time.Duration(d.sim.Tick()) * d.tickDur,
		Ticks:    d.sim.Tick(),
	}
	d.logger.Info("run finished", "outcome", res.Outcome, "score", res.Score,
		"depth", res.Depth, "droplets", res.Droplets, "duration", res.Duration)

	if d.opts.OnFinish != nil {
		d.opts.OnFinish(res)
	}
}
