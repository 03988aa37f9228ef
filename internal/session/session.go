// Package session bundles what one player's run needs: the platform
// client, the stats tracker and the display font.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/platform"
	"github.com/vovakirdan/tui-hunter/internal/present"
	"github.com/vovakirdan/tui-hunter/internal/stats"
)

// Session is handed to every sample instead of global platform state.
type Session struct {
	ID          string
	User        string
	Platform    platform.Platform
	Tracker     *stats.Tracker
	Glyphs      present.Glyphs
	Replacement string
	Config      config.Config
	Logger      *log.Logger
}

// Options configure New. ID defaults to a random UUID.
type Options struct {
	ID       string
	User     string
	Platform platform.Platform
	Config   config.Config
	Logger   *log.Logger
}

// New creates a session and its tracker. The tracker issues nothing until
// its first Update.
func New(opts Options) (*Session, error) {
	if opts.Platform == nil {
		return nil, fmt.Errorf("session: platform is required")
	}
	glyphs, err := present.GlyphsFromConfig(opts.Config.Font)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("session", id)

	return &Session{
		ID:          id,
		User:        opts.User,
		Platform:    opts.Platform,
		Tracker:     stats.NewTracker(opts.Platform, TrackerOptions(opts.Config.Tracker, logger)),
		Glyphs:      glyphs,
		Replacement: opts.Config.Font.Replacement,
		Config:      opts.Config,
		Logger:      logger,
	}, nil
}

// TrackerOptions maps the tracker config onto stats.Options. A zero retry
// count in the config means no retries.
func TrackerOptions(cfg config.TrackerConfig, logger *log.Logger) stats.Options {
	retries := cfg.MaxFetchRetries
	if retries == 0 {
		retries = -1
	}
	return stats.Options{
		MaxFetchRetries: retries,
		RetryDelayTicks: cfg.RetryDelayTicks,
		Logger:          logger,
	}
}

// Filter drops or replaces the runes the display font cannot draw.
func (s *Session) Filter(text string) string {
	return present.ReplaceUnsupported(s.Glyphs, text, s.Replacement)
}

// PumpCallbacks delivers pending platform completions. Called once per
// frame before the sample steps.
func (s *Session) PumpCallbacks() {
	s.Platform.RunCallbacks()
}

// Close releases the platform client.
func (s *Session) Close() error {
	return s.Platform.Close()
}

// WaitForStats ticks the tracker and pumps callbacks until the stats are
// loaded or the tracker is disabled. Used by hosts without a frame loop.
func (s *Session) WaitForStats(maxTicks int) bool {
	for range maxTicks {
		s.Tracker.Update()
		switch s.Tracker.State() {
		case stats.StateActive:
			return true
		case stats.StateDisabled:
			return false
		}
		s.PumpCallbacks()
	}
	return s.Tracker.State() == stats.StateActive
}
