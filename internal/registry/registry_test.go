package registry

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/platform/local"
	"github.com/vovakirdan/tui-hunter/internal/session"
)

type stubGame struct{ sess *session.Session }

func (stubGame) ID() string                           { return "stub" }
func (stubGame) Title() string                        { return "Stub" }
func (stubGame) Reset(core.RuntimeConfig)             {}
func (stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (stubGame) Render(*core.Screen)                  {}
func (stubGame) State() core.GameState                { return core.GameState{} }

func testSession(t *testing.T) *session.Session {
	t.Helper()
	cfg := config.DefaultConfig()
	logger := log.New(io.Discard)
	sess, err := session.New(session.Options{
		Config:   cfg,
		Platform: local.New(local.Options{Config: cfg, Offline: true, Limiter: local.Unlimited, Logger: logger}),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	return sess
}

func TestRegisterCreate(t *testing.T) {
	Register("stub", "Stub", func(s *session.Session) Game { return stubGame{sess: s} })

	if !Exists("stub") {
		t.Fatal("Expected stub to be registered")
	}

	found := false
	for _, info := range List() {
		if info.ID == "stub" {
			found = info.Title == "Stub"
		}
	}
	if !found {
		t.Error("List() should include stub with its title")
	}

	sess := testSession(t)
	g, err := Create("stub", sess)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.(stubGame).sess != sess {
		t.Error("Factory should receive the session")
	}

	if _, err := Create("missing", sess); err == nil {
		t.Error("Expected error for unknown game")
	}
	if _, err := Create("stub", nil); err == nil {
		t.Error("Expected error without a session")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()
	Register("stub", "Stub", func(s *session.Session) Game { return stubGame{sess: s} })
}

type layoutGame struct {
	stubGame
	resets, resizes, leaves int
}

func (g *layoutGame) Reset(core.RuntimeConfig)  { g.resets++ }
func (g *layoutGame) Resize(core.RuntimeConfig) { g.resizes++ }
func (g *layoutGame) Leave()                    { g.leaves++ }

type countingGame struct {
	stubGame
	resets int
}

func (g *countingGame) Reset(core.RuntimeConfig) { g.resets++ }

func TestResizeAndLeave(t *testing.T) {
	lg := &layoutGame{}
	Resize(lg, core.RuntimeConfig{})
	Leave(lg)
	if lg.resizes != 1 || lg.resets != 0 || lg.leaves != 1 {
		t.Errorf("resizes=%d resets=%d leaves=%d, want 1 0 1", lg.resizes, lg.resets, lg.leaves)
	}

	cg := &countingGame{}
	Resize(cg, core.RuntimeConfig{})
	Leave(cg)
	if cg.resets != 1 {
		t.Errorf("Resize() without Resizer should Reset, resets=%d", cg.resets)
	}
}
