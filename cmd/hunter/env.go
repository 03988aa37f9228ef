package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/platform/local"
	"github.com/vovakirdan/tui-hunter/internal/session"
	"github.com/vovakirdan/tui-hunter/internal/storage"
)

// env is what every local command needs: config, store and one session.
type env struct {
	cfg     config.Config
	store   *storage.Store // nil when the database could not be opened
	sess    *session.Session
	logFile io.Closer
}

// openEnv loads the config, opens the database and logs the user on.
// A database that cannot be opened leaves the platform unavailable.
func openEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	logger, logFile := openLogger(flagLogFile)
	e := &env{cfg: cfg, logFile: logFile}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open stats database: %v\n", err)
		logger.Warn("could not open stats database", "path", flagDBPath, "error", err)
	} else {
		e.store = store
	}

	user := currentUser()
	e.sess, err = session.New(session.Options{
		User: user,
		Platform: local.New(local.Options{
			Store:   e.store,
			Config:  cfg,
			User:    user,
			Offline: flagOffline,
			Logger:  logger,
		}),
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the session, the store and the log file.
func (e *env) Close() {
	if e.sess != nil {
		e.sess.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// openLogger writes logs to path so they never corrupt the alt screen.
// Logging is discarded when the file cannot be created.
func openLogger(path string) (*log.Logger, io.Closer) {
	expanded, err := config.ExpandHome(path)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(expanded), 0o755)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return log.New(io.Discard), nil
	}
	return log.NewWithOptions(f, log.Options{ReportTimestamp: true}), f
}

func currentUser() string {
	if flagUser != "" {
		return flagUser
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
