package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/sim"
	"github.com/vovakirdan/oil-strike/internal/storage"
)

// SSHServerConfig configures the remote drilling server.
type SSHServerConfig struct {
	Address     string        // host:port, ":23234" by default
	HostKeyPath string        // Generated on first start; empty uses ~/.oilstrike/host_key
	DBPath      string        // Runs database shared by every session
	IdleTimeout time.Duration // Idle sessions are closed after this

	Maps       []config.MapConfig
	Drill      config.DrillConfig
	Difficulty config.DifficultyPreset // Overrides each map's preset when set
	FPS        int
	Logger     *log.Logger // Nil logs to stderr
}

// DefaultSSHServerConfig returns the settings used by "oilstrike serve".
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.oilstrike/runs.db",
		IdleTimeout: 30 * time.Minute,
		Drill:       config.DefaultDrillConfig(),
		FPS:         30,
	}
}

// SSHServer serves the game over SSH with Wish. Every session gets its own
// menu and drill; audio stays on the host, so sessions are muted.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer prepares the server. A database that cannot be opened only
// disables run history.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if len(cfg.Maps) == 0 {
		return nil, errors.New("tui: ssh server needs at least one map")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{cfg: cfg, logger: logger.WithPrefix("oilstrike-ssh")}
	if srv.store, err = storage.Open(cfg.DBPath); err != nil {
		srv.logger.Warn("run history disabled", "db", cfg.DBPath, "err", err)
		srv.store = nil
	}

	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.newSession),
			srv.logSessions,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("tui: cannot create ssh server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves the key location and makes sure its directory exists.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot locate home directory: %w", err)
		}
		path = filepath.Join(home, ".oilstrike", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: cannot create host key directory: %w", err)
	}
	return path, nil
}

// newSession builds the Bubble Tea model for one connection.
func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("rejected session without a terminal", "user", sess.User())
		return nil, nil
	}

	return NewSessionModel(SessionOptions{
		Maps:       s.cfg.Maps,
		Drill:      s.cfg.Drill,
		Difficulty: s.cfg.Difficulty,
		Store:      s.store,
		Logger:     s.logger.With("user", sess.User()),
		FPS:        s.cfg.FPS,
		Width:      pty.Window.Width,
		Height:     pty.Window.Height,
	}), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("driller connected", "user", sess.User(), "remote", sess.RemoteAddr())
		next(sess)
		s.logger.Info("driller left", "user", sess.User(), "online", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is cancelled or the listener fails, then
// shuts the server down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("rig open for ssh", "address", s.cfg.Address, "sites", len(s.cfg.Maps))

	failed := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err, ok := <-failed:
		s.closeStore()
		if ok {
			return fmt.Errorf("tui: ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("closing the rig")
	return s.Shutdown()
}

// Shutdown stops accepting sessions, waits up to ten seconds for open ones
// and closes the database.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string { return s.cfg.Address }

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Maps       []config.MapConfig
	Drill      config.DrillConfig
	Difficulty config.DifficultyPreset
	Store      *storage.Store
	Cues       sim.Cues // Nil mutes the session
	Logger     *log.Logger
	FPS        int
	Width      int
	Height     int
	Telemetry  bool
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenScoreboard
	screenGame
)

// SessionModel manages the full session flow: menu -> game -> menu, with
// the scoreboard one Tab away. It hosts everything in one program.
type SessionModel struct {
	opts       SessionOptions
	screen     sessionScreen
	menu       MenuModel
	scoreboard ScoreboardModel
	game       GameModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts: opts,
		menu: NewMenuModel(opts.Maps, opts.Store, opts.Width, opts.Height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.opts.Maps, m.opts.Store, m.opts.Width, m.opts.Height)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		mc := m.menu.Selected().Map
		m.game = NewGameModel(GameOptions{
			Map:       mc,
			Config:    mc.Apply(m.opts.Drill, m.opts.Difficulty),
			Store:     m.opts.Store,
			Cues:      m.opts.Cues,
			Logger:    m.opts.Logger,
			FPS:       m.opts.FPS,
			Width:     m.opts.Width,
			Height:    m.opts.Height,
			Telemetry: m.opts.Telemetry,
		})
		m.screen = screenGame
		m.opts.Logger.Info("site selected", "map", mc.ID)
		return m, m.game.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = board
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = gameModel
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

// backToMenu rebuilds the menu so it shows fresh stats.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.opts.Maps, m.opts.Store, m.opts.Width, m.opts.Height)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}
