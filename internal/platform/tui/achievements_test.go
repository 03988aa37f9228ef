package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
	_ "github.com/vovakirdan/tui-hunter/internal/games/hunter"
	"github.com/vovakirdan/tui-hunter/internal/platform/local"
	"github.com/vovakirdan/tui-hunter/internal/session"
	"github.com/vovakirdan/tui-hunter/internal/storage"
)

func newTestSession(t *testing.T, offline bool) (*session.Session, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "hunter.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	logger := log.New(io.Discard)
	sess, err := session.New(session.Options{
		User:     "alice",
		Config:   cfg,
		Platform: local.New(local.Options{Store: store, Config: cfg, User: "alice", Offline: offline, Limiter: local.Unlimited, Logger: logger}),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess, store
}

func TestAchievementsPages(t *testing.T) {
	sess, store := newTestSession(t, false)
	if !sess.WaitForStats(5) {
		t.Fatal("stats did not load")
	}
	now := time.Unix(1700000000, 0)
	for _, score := range []int{40, 25, 90} {
		if _, err := store.SubmitScore(480, "Quickest Win", "alice", score, now); err != nil {
			t.Fatalf("SubmitScore() failed: %v", err)
		}
	}

	m := NewAchievementsModel("alice", sess.Tracker.Snapshot(), sess.Config, store, 100, 30)
	if got := len(m.Rows()); got != 4 {
		t.Fatalf("achievement rows = %d, want 4", got)
	}
	if m.Rows()[0][0] != "ACH_WIN_ONE_GAME" || m.Rows()[0][2] != "-" {
		t.Errorf("first row = %v", m.Rows()[0])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(AchievementsModel)
	if m.Page() != 1 {
		t.Fatalf("Page() = %d, want 1", m.Page())
	}
	rows := m.Rows()
	if len(rows) != 3 {
		t.Fatalf("leaderboard rows = %d, want 3", len(rows))
	}
	if rows[0][2] != "25" || rows[2][2] != "90" {
		t.Errorf("ascending board order = %v", rows)
	}
	if !strings.Contains(m.View(), "QUICKEST WIN") {
		t.Error("view should show the board title")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(AchievementsModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(AchievementsModel)
	if m.Page() != 2 {
		t.Errorf("Page() = %d, want 2 after wrapping", m.Page())
	}
	if len(m.Rows()) != 0 {
		t.Errorf("empty board rows = %d", len(m.Rows()))
	}
	if !strings.Contains(m.View(), "No entries yet.") {
		t.Error("expected the empty board message")
	}
}

func TestAchievementsUnavailable(t *testing.T) {
	sess, _ := newTestSession(t, true)
	sess.WaitForStats(5)

	m := NewAchievementsModel("alice", sess.Tracker.Snapshot(), sess.Config, nil, 60, 24)
	if len(m.Rows()) != 0 {
		t.Errorf("rows = %d, want 0", len(m.Rows()))
	}
	out := m.View()
	if !strings.Contains(out, "Please start your platform client") {
		t.Error("expected the unavailable message in the summary")
	}
}

func TestSessionModelFlow(t *testing.T) {
	sess, store := newTestSession(t, false)
	cfg := core.DefaultConfig()
	var m tea.Model = NewSessionModel(sess, store, cfg)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if sm := m.(SessionModel); sm.view != viewAchievements {
		t.Fatalf("view = %v, want achievements", sm.view)
	}
	if !strings.Contains(m.View(), "ACH_WIN_ONE_GAME") {
		t.Error("achievements view should list the catalog")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if sm := m.(SessionModel); sm.view != viewMenu {
		t.Fatalf("view = %v, want menu", sm.view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if sm := m.(SessionModel); sm.view != viewGame {
		t.Fatalf("view = %v, want game", sm.view)
	}
	for range 3 {
		m, _ = m.Update(TickMsg(time.Now()))
	}
	if !strings.Contains(m.View(), "NumGames") {
		t.Error("hunter should render stats once they arrive")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if sm := m.(SessionModel); sm.view != viewMenu {
		t.Fatalf("view = %v, want menu after back", sm.view)
	}

	m, cmd := m.Update(runeKey("q"))
	if !m.(SessionModel).quitting || cmd == nil {
		t.Error("q should quit the session")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	scr := core.NewScreen(6, 2)
	scr.DrawText(0, 0, "hi")
	scr.DrawTextColored(0, 1, "ok", core.ColorGreenYellow)

	out := RenderScreen(scr)
	if !strings.Contains(out, "hi") || !strings.Contains(out, "ok") {
		t.Errorf("RenderScreen() = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 rows, got %q", out)
	}
}
