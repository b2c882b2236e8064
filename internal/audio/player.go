// Package audio synthesises the game's sound cues with beep and plays them
// through the system speaker.
package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/oil-strike/internal/sim"
)

// Player mixes cues and loops into one output. It implements sim.Cues.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	loops  map[sim.Loop]*beep.Ctrl
	last   map[sim.Cue]time.Time
	volume float64
	now    func() time.Time
	lock   func() // Guards the mixer against the output goroutine
	unlock func()
	logger *log.Logger
}

// Options configures a Player.
type Options struct {
	Volume float64 // Linear, 1 is unity. Zero uses 0.6
	Logger *log.Logger
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Open initialises the speaker and returns a Player feeding it.
func Open(opts Options) (*Player, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("audio: cannot open speaker: %w", speakerErr)
	}

	p := newPlayer(opts, speaker.Lock, speaker.Unlock)
	speaker.Play(p.mixer)
	return p, nil
}

// OpenOrNop opens the speaker, falling back to silence when no audio device
// is available.
func OpenOrNop(opts Options) sim.Cues {
	p, err := Open(opts)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("audio disabled", "err", err)
		}
		return sim.NopCues{}
	}
	return p
}

func newPlayer(opts Options, lock, unlock func()) *Player {
	if opts.Volume <= 0 {
		opts.Volume = 0.6
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Player{
		mixer:  &beep.Mixer{},
		loops:  make(map[sim.Loop]*beep.Ctrl),
		last:   make(map[sim.Cue]time.Time),
		volume: opts.Volume,
		now:    time.Now,
		lock:   lock,
		unlock: unlock,
		logger: opts.Logger,
	}
}

// Play starts a one-shot cue. Repeats within the cue's minimum gap are dropped.
func (p *Player) Play(c sim.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if last, ok := p.last[c]; ok && now.Sub(last) < gapFor(c) {
		return
	}
	p.last[c] = now

	s := newVolume(Sound(c), p.volume)
	p.lock()
	p.mixer.Add(s)
	p.unlock()
}

// StartLoop starts a loop unless it is already playing.
func (p *Player) StartLoop(l sim.Loop) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()

	if ctrl, ok := p.loops[l]; ok && !ctrl.Paused {
		return
	}
	ctrl := &beep.Ctrl{Streamer: newVolume(LoopSound(l), p.volume*0.5)}
	p.loops[l] = ctrl
	p.mixer.Add(ctrl)
	p.logger.Debug("loop started", "loop", l)
}

// StopLoop stops a loop. Stopping a silent loop does nothing.
func (p *Player) StopLoop(l sim.Loop) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()

	ctrl, ok := p.loops[l]
	if !ok {
		return
	}
	// A paused Ctrl still occupies the mixer; drop its stream so the mixer reaps it
	ctrl.Paused = true
	ctrl.Streamer = nil
	delete(p.loops, l)
	p.logger.Debug("loop stopped", "loop", l)
}

// Playing reports whether a loop is running.
func (p *Player) Playing(l sim.Loop) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.loops[l]
	return ok
}

// Close silences everything.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()

	for l, ctrl := range p.loops {
		ctrl.Paused = true
		ctrl.Streamer = nil
		delete(p.loops, l)
	}
	p.mixer.Clear()
}
