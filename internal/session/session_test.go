package session

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/platform/local"
	"github.com/vovakirdan/tui-hunter/internal/stats"
	"github.com/vovakirdan/tui-hunter/internal/storage"
)

func offlineSession(t *testing.T, opts Options) *Session {
	t.Helper()
	logger := log.New(io.Discard)
	opts.Logger = logger
	if opts.Config.Platform.AppID == 0 {
		opts.Config = config.DefaultConfig()
	}
	opts.Platform = local.New(local.Options{Config: opts.Config, Offline: true, Limiter: local.Unlimited, Logger: logger})
	sess, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestNewAssignsID(t *testing.T) {
	sess := offlineSession(t, Options{})
	_, err := uuid.Parse(sess.ID)
	require.NoError(t, err)

	named := offlineSession(t, Options{ID: "ssh-1", User: "alice"})
	require.Equal(t, "ssh-1", named.ID)
	require.Equal(t, "alice", named.User)
}

func TestNewRequiresPlatform(t *testing.T) {
	_, err := New(Options{Config: config.DefaultConfig()})
	require.Error(t, err)
}

func TestNewRejectsUnknownCharset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Font.Charset = "emoji"
	_, err := New(Options{Config: cfg, Platform: local.New(local.Options{Config: cfg, Limiter: local.Unlimited, Logger: log.New(io.Discard)})})
	require.Error(t, err)
}

func TestFilterUsesConfiguredReplacement(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Font.Replacement = "?"
	sess := offlineSession(t, Options{Config: cfg})
	require.Equal(t, "Hello J?rg!\n", sess.Filter("Hello Jörg!\n"))
}

func TestOfflineTrackerDisables(t *testing.T) {
	sess := offlineSession(t, Options{})
	sess.PumpCallbacks()
	sess.Tracker.Update()
	require.Equal(t, stats.StateDisabled, sess.Tracker.State())
}

func TestTrackerOptions(t *testing.T) {
	opts := TrackerOptions(config.TrackerConfig{MaxFetchRetries: 0, RetryDelayTicks: 30}, nil)
	require.Equal(t, -1, opts.MaxFetchRetries)
	require.Equal(t, 30, opts.RetryDelayTicks)

	opts = TrackerOptions(config.TrackerConfig{MaxFetchRetries: 3, RetryDelayTicks: 60}, nil)
	require.Equal(t, 3, opts.MaxFetchRetries)
}

func TestWaitForStats(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "hunter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	logger := log.New(io.Discard)
	sess, err := New(Options{
		User:     "alice",
		Config:   cfg,
		Platform: local.New(local.Options{Store: store, Config: cfg, User: "alice", Limiter: local.Unlimited, Logger: logger}),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })

	require.True(t, sess.WaitForStats(10))
	require.Equal(t, stats.StateActive, sess.Tracker.State())
}

func TestWaitForStatsOffline(t *testing.T) {
	sess := offlineSession(t, Options{})
	require.False(t, sess.WaitForStats(10))
	require.Equal(t, stats.StateDisabled, sess.Tracker.State())
}
