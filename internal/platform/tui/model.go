package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/loop"
	"github.com/vovakirdan/oil-strike/internal/sim"
	"github.com/vovakirdan/oil-strike/internal/storage"
	"github.com/vovakirdan/oil-strike/internal/telemetry"
)

// GameOptions configures a game screen.
type GameOptions struct {
	Map       config.MapConfig
	Config    config.DrillConfig // Already tuned for Map
	Store     *storage.Store     // Optional; runs are not saved without it
	Cues      sim.Cues           // Nil plays nothing
	Logger    *log.Logger
	Seed      int64 // 0 seeds every run from the clock
	FPS       int   // Frame callbacks per second
	Width     int   // Terminal size in cells
	Height    int
	Telemetry bool // Record steering commands

	HoldWindow time.Duration // Zero uses DefaultHoldWindow
	Clock      loop.Clock    // Nil uses the wall clock
}

// runState is shared between the model copies and the driver's finish hook.
type runState struct {
	sessionID string
	result    loop.Result
	done      bool
}

// GameModel is the Bubble Tea model for one drilling site. It owns a
// loop.Driver and fires its frame callbacks on every tick.
type GameModel struct {
	opts      GameOptions
	logger    *log.Logger
	field     *Field
	sched     *loop.FrameScheduler
	driver    *loop.Driver
	recorder  *telemetry.Recorder
	run       *runState
	keys      *holdTracker
	keyMapper *KeyMapper
	now       func() time.Time
	err       error

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model and starts its first run.
func NewGameModel(opts GameOptions) GameModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Cues == nil {
		opts.Cues = sim.NopCues{}
	}
	if opts.FPS <= 0 {
		opts.FPS = opts.Config.Loop.TickRate
	}
	if opts.HoldWindow <= 0 {
		opts.HoldWindow = DefaultHoldWindow
	}

	m := GameModel{
		opts:      opts,
		logger:    opts.Logger.WithPrefix("game"),
		field:     NewField(opts.Width, opts.Height, opts.Map),
		keys:      newHoldTracker(opts.HoldWindow),
		keyMapper: NewKeyMapper(),
		now:       time.Now,
	}
	if opts.Clock != nil {
		m.now = opts.Clock.Now
	}
	m.start()
	return m
}

// start begins a fresh run on a new scheduler.
func (m *GameModel) start() {
	seed := m.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m.keys.reset()
	m.sched = loop.NewFrameScheduler()
	m.run = &runState{sessionID: telemetry.NewSessionID()}
	m.recorder = nil

	var rec loop.Recorder
	if m.opts.Telemetry {
		m.recorder = telemetry.NewRecorder(m.run.sessionID, m.telemetrySink(), telemetry.DefaultBatchSize)
		rec = m.recorder
	}

	d, err := loop.Start(loop.Options{
		Config:    m.opts.Config,
		Surface:   m.field,
		Scheduler: m.sched,
		Clock:     m.opts.Clock,
		Cues:      m.opts.Cues,
		Seed:      seed,
		Recorder:  rec,
		OnFinish:  finishHook(m.opts.Store, m.logger, m.opts.Map.ID, m.run, m.recorder),
		Logger:    m.logger,
	})
	if err != nil {
		m.err = err
		m.logger.Error("cannot start run", "err", err)
		return
	}
	m.driver = d
	m.logger.Info("run created", "map", m.opts.Map.ID, "session", m.run.sessionID, "seed", seed)
}

func (m *GameModel) telemetrySink() telemetry.Sink {
	sinks := telemetry.MultiSink{telemetry.NewLogSink(m.logger)}
	if m.opts.Store != nil {
		sinks = append(sinks, telemetry.NewStoreSink(m.opts.Store))
	}
	return sinks
}

// finishHook saves the run once and flushes its telemetry.
func finishHook(store *storage.Store, logger *log.Logger, mapID string, st *runState, rec *telemetry.Recorder) func(loop.Result) {
	return func(res loop.Result) {
		st.result = res
		st.done = true

		if rec != nil {
			if err := rec.Close(); err != nil {
				logger.Warn("telemetry incomplete", "err", err)
			}
		}
		if store == nil {
			return
		}
		_, err := store.SaveRun(storage.Run{
			SessionID: st.sessionID,
			MapID:     mapID,
			Outcome:   res.Outcome.String(),
			Score:     res.Score,
			Depth:     res.Depth,
			Droplets:  res.Droplets,
			Duration:  res.Duration,
		})
		if err != nil {
			logger.Warn("cannot save run", "err", err)
		}
	}
}

// stop ends the current run. An unfinished run's telemetry is still flushed.
func (m *GameModel) stop() {
	if m.driver == nil {
		return
	}
	m.driver.Stop()
	if !m.run.done && m.recorder != nil {
		if err := m.recorder.Close(); err != nil {
			m.logger.Warn("telemetry incomplete", "err", err)
		}
	}
}

// Init starts the frame ticker.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.field.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.stop()
		m.quitting = true
		return m, tea.Quit
	}
	if m.driver == nil {
		return m, nil
	}

	switch {
	case action.IsDirectional():
		if m.keys.press(action, m.now()) {
			m.driver.Press(action)
		}
	case action == core.ActionPause:
		m.keys.releaseAll(m.driver.Release)
		m.driver.TogglePause()
	case action == core.ActionBack:
		if m.driver.Paused() || m.driver.Finished() {
			m.stop()
			m.backToMenu = true
			return m, tea.Quit
		}
	case action == core.ActionRestart:
		if m.driver.Finished() {
			m.stop()
			m.start()
		}
	}
	return m, nil
}

// handleTick releases expired keys and fires the pending frame.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.driver != nil && !m.driver.Stopped() {
		m.keys.expire(m.now(), m.driver.Release)
		m.sched.Fire()
	}
	return m, tickCmd(m.opts.FPS)
}

// saveScreenshot writes the current screen under ~/.oilstrike/screenshots.
func (m *GameModel) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	path, err := writeScreenshot(m.field.Screen(), filepath.Join(home, ".oilstrike", "screenshots"), m.opts.Map.ID, time.Now())
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// writeScreenshot saves the screen as plain text with trailing blanks
// trimmed from every row.
func writeScreenshot(screen *core.Screen, dir, mapID string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create screenshot directory: %w", err)
	}

	var b strings.Builder
	for y := range screen.Height() {
		b.WriteString(strings.TrimRight(screen.Row(y), " "))
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", mapID, at.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.err != nil {
		m.field.DrawMessage("Cannot start the rig", m.err.Error(), "Q quit")
		return RenderScreen(m.field.Screen())
	}
	if _, ok := m.field.Viewport(); !ok {
		m.field.DrawMessage("Terminal too small", "Enlarge to drill")
		return RenderScreen(m.field.Screen())
	}
	if _, ok := m.driver.Snapshot(); !ok {
		m.field.DrawMessage("Rigging up...")
		return RenderScreen(m.field.Screen())
	}

	hud := m.driver.HUD()
	hud.Paused = m.driver.Paused()
	m.field.DrawHUD(hud)
	if lines, c := m.overlay(); lines != nil {
		m.field.DrawOverlay(lines, c)
	}
	return RenderScreen(m.field.Screen())
}

// overlay returns the box shown over the field, if any.
func (m GameModel) overlay() ([]string, core.Color) {
	controls := "R restart   B menu   Q quit"
	switch {
	case m.run.done && m.run.result.Outcome == sim.PhaseWin:
		r := m.run.result
		return []string{
			"OIL STRIKE!",
			"",
			fmt.Sprintf("Score %d   Droplets %d", r.Score, r.Droplets),
			fmt.Sprintf("Time %s", r.Duration.Round(time.Second)),
			"",
			controls,
		}, core.ColorBrightGreen
	case m.run.done:
		r := m.run.result
		reason := "The drill was destroyed"
		if snap, ok := m.driver.Snapshot(); ok && snap.Health > 0 {
			reason = "Time ran out"
		}
		return []string{
			"GAME OVER",
			reason,
			"",
			fmt.Sprintf("Score %d   Depth %dm", r.Score, int(r.Depth)),
			"",
			controls,
		}, core.ColorBrightRed
	case m.driver.Paused():
		return []string{
			"PAUSED",
			"",
			"P resume   B menu   Q quit",
		}, core.ColorYellow
	}
	return nil, core.ColorDefault
}

// Result returns the outcome of the last run, if it finished.
func (m GameModel) Result() (loop.Result, bool) {
	if m.run == nil {
		return loop.Result{}, false
	}
	return m.run.result, m.run.done
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// GameExit is how a game screen was left.
type GameExit struct {
	BackToMenu bool
	Result     loop.Result
	Finished   bool
}

// RunGame runs a game screen in the local terminal until the player quits
// or goes back to the menu.
func RunGame(opts GameOptions) (GameExit, error) {
	p := tea.NewProgram(NewGameModel(opts), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return GameExit{}, err
	}
	m, ok := finalModel.(GameModel)
	if !ok {
		return GameExit{}, nil
	}
	res, done := m.Result()
	return GameExit{BackToMenu: m.BackToMenu(), Result: res, Finished: done}, m.err
}
