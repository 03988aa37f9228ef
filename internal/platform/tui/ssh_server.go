package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/platform/local"
	"github.com/vovakirdan/tui-hunter/internal/registry"
	"github.com/vovakirdan/tui-hunter/internal/session"
	"github.com/vovakirdan/tui-hunter/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.hunter/host_key.
	HostKeyPath string

	// DBPath is the path to the stats database shared by all players.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the frame rate of every session.
	TickRate int

	// Config is the platform and sample configuration.
	Config config.Config

	// WatchPath, if set, is a config file reloaded on change. New
	// connections use the latest valid version; running sessions keep theirs.
	WatchPath string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.hunter/hunter.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Config:      config.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server. Every connection gets its own platform
// client, tracker and session; only the store and the limiter are shared.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	limiter     local.Limiter
	stopLimiter func()
	watcher     *config.Watcher
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hunter-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		// Players get the unavailable message instead of stats.
		logger.Warn("could not open stats database", "error", err)
		store = nil
	}

	rate := cfg.Config.Platform.StoreRate
	limiter, stopLimiter := local.NewTokenBucketLimiter(rate.PerSecond, rate.Burst)

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		limiter:     limiter,
		stopLimiter: stopLimiter,
		logger:      logger,
	}

	if cfg.WatchPath != "" {
		srv.watcher, err = config.Watch(cfg.WatchPath, func(_ config.Config, err error) {
			if err != nil {
				logger.Warn("config reload failed, keeping previous", "error", err)
				return
			}
			logger.Info("config reloaded", "path", cfg.WatchPath)
		})
		if err != nil {
			srv.closeResources()
			return nil, err
		}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.closeResources()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".hunter", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		srv.closeResources()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		srv.closeResources()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// currentConfig is the watched config when there is one.
func (s *SSHServer) currentConfig() config.Config {
	if s.watcher != nil {
		return s.watcher.Current()
	}
	return s.config.Config
}

// newSession builds the platform client and session for one player.
func (s *SSHServer) newSession(user string) (*session.Session, error) {
	id := uuid.NewString()
	cfg := s.currentConfig()
	logger := s.logger.With("user", user)
	client := local.New(local.Options{
		Store:   s.store,
		Config:  cfg,
		User:    user,
		Limiter: s.limiter,
		Logger:  logger,
	})
	sess, err := session.New(session.Options{
		ID:       id,
		User:     user,
		Platform: client,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return sess, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	sess, err := s.newSession(sshSession.User())
	if err != nil {
		s.logger.Error("cannot create session", "user", sshSession.User(), "error", err)
		return nil, nil
	}
	go func() {
		<-sshSession.Context().Done()
		sess.Close()
	}()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(sess, s.store, cfg)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeResources()
	return err
}

func (s *SSHServer) closeResources() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.stopLimiter != nil {
		s.stopLimiter()
		s.stopLimiter = nil
	}
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewAchievements
)

// SessionModel manages the full player flow: menu -> sample or
// achievements -> menu. It is the top-level model for SSH sessions.
type SessionModel struct {
	sess         *session.Session
	source       LeaderboardSource
	config       core.RuntimeConfig
	view         sessionView
	menu         MenuModel
	game         *Model
	achievements *AchievementsModel
	quitting     bool
}

// NewSessionModel creates a new session model. store may be nil.
func NewSessionModel(sess *session.Session, store *storage.Store, cfg core.RuntimeConfig) SessionModel {
	m := SessionModel{
		sess:   sess,
		config: cfg,
		menu:   NewMenuModel(sess.User, cfg),
	}
	if store != nil {
		m.source = store
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewAchievements:
		return m.updateAchievements(msg)
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

	case m.menu.WantsAchievements():
		m.sess.WaitForStats(3)
		view := NewAchievementsModel(m.sess.User, m.sess.Tracker.Snapshot(), m.sess.Config, m.source, m.config.ScreenW, m.config.ScreenH)
		m.achievements = &view
		m.view = viewAchievements
		return m, view.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID, m.sess)
		if err != nil {
			// Shouldn't happen since menu only shows registered samples
			m.sess.Logger.Error("cannot create sample", "error", err)
			m.menu = NewMenuModel(m.sess.User, m.config)
			return m, nil
		}

		m.config = m.menu.Config()
		m.config.Seed = time.Now().UnixNano()
		gameModel := NewModel(game, m.sess, m.config)
		m.game = &gameModel
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when a sample is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		registry.Leave(m.game.game)
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		registry.Leave(m.game.game)
		return m.backToMenu()
	}

	return m, cmd
}

// updateAchievements handles updates for the achievements view.
func (m SessionModel) updateAchievements(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.achievements.Update(msg)
	if view, ok := newModel.(AchievementsModel); ok {
		m.achievements = &view
	}

	if m.achievements.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.achievements.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu drops the child model. Its quit command is not forwarded.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.game = nil
	m.achievements = nil
	m.view = viewMenu
	m.menu = NewMenuModel(m.sess.User, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewAchievements:
		return m.achievements.View()
	default:
		return m.menu.View()
	}
}
