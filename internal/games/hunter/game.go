// Package hunter implements the Achievement Hunter sample: a ship flies
// through an asteroid field while the stats tracker counts games, wins,
// losses and distance and unlocks achievements.
package hunter

import (
	"fmt"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/present"
	"github.com/vovakirdan/tui-hunter/internal/registry"
	"github.com/vovakirdan/tui-hunter/internal/session"
	"github.com/vovakirdan/tui-hunter/internal/stats"
)

// Visual characters for rendering
const (
	ShipBody     = '='
	ShipNose     = '>'
	AsteroidChar = '@'
)

const (
	shipX       = 1  // ship column inside the field
	thrustTicks = 8  // a key press keeps the engine on this long
	flashTicks  = 90 // how long an event message stays up
)

// Leaderboards the sample submits to.
const (
	BoardQuickestWin  = "Quickest Win"
	BoardFeetTraveled = "Feet Traveled"
)

// HelpLine lists the sample's keys.
const HelpLine = "Right: thrust  Up/Down: steer  1: win  2: loss  X: reset dist  R: reset all"

// Game implements the Achievement Hunter sample.
type Game struct {
	sess       *session.Session
	tracker    *stats.Tracker
	cfg        config.HunterConfig
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	field     core.Rect // playfield box in screen coordinates
	asteroids *Field
	lane      int
	thrust    int

	roundFeet  float64
	roundTicks int
	ticks      uint64
	paused     bool

	flash      string
	flashUntil uint64
}

// New creates the sample for a session.
func New(sess *session.Session) *Game {
	return &Game{
		sess:    sess,
		tracker: sess.Tracker,
		cfg:     sess.Config.Hunter,
	}
}

func (g *Game) ID() string    { return "hunter" }
func (g *Game) Title() string { return "Achievement Hunter" }

// Reset lays out the playfield and starts a fresh round.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.field = playfield(runtime.ScreenW, runtime.ScreenH)

	g.asteroids = NewField(runtime.Seed, g.field.W-2, g.field.H-2, &g.cfg, g.difficulty)
	g.ticks = 0
	g.paused = false
	g.flash = ""
	g.newRound()
	// A round left unfinished by an earlier instance does not carry over.
	g.tracker.ResetSessionDistance()
}

// Resize lays the playfield out again and keeps the round going.
func (g *Game) Resize(runtime core.RuntimeConfig) {
	if g.asteroids == nil {
		g.Reset(runtime)
		return
	}
	g.runtime = runtime
	g.field = playfield(runtime.ScreenW, runtime.ScreenH)
	lanes := g.field.H - 2
	g.asteroids.Resize(g.field.W-2, lanes)
	g.lane = core.Clamp(g.lane, 0, lanes-1)
}

// playfield is the left half of the screen below the stats panel.
func playfield(w, h int) core.Rect {
	top := core.TextHeight(present.StatsLines(stats.Snapshot{})) + 1
	fieldH := max(h-top-2, 3)
	return core.NewRect(0, top, max(w/2-1, 6), fieldH)
}

func (g *Game) newRound() {
	g.lane = (g.field.H - 2) / 2
	g.thrust = 0
	g.roundFeet = 0
	g.roundTicks = 0
	g.asteroids.Clear()
}

// Step handles input, advances the round and then runs the tracker tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.ticks++
	g.handleKeys(in)

	if !g.paused && g.tracker.State() == stats.StateActive {
		g.fly(in)
	}

	g.tracker.Update()
	return core.StepResult{State: g.State()}
}

func (g *Game) handleKeys(in core.InputFrame) {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionOverlay) {
		g.sess.Platform.ToggleOverlay()
	}
	if in.Has(core.ActionWin) {
		g.finish(stats.Win, "Win recorded")
	}
	if in.Has(core.ActionLoss) {
		g.finish(stats.Loss, "Loss recorded")
	}
	if in.Has(core.ActionResetDistance) {
		g.tracker.ResetSessionDistance()
		g.roundFeet = 0
		g.showFlash("Distance reset")
	}
	if in.Has(core.ActionResetAll) {
		g.tracker.ResetAll()
		g.newRound()
		g.showFlash("All stats and achievements reset")
	}
}

func (g *Game) fly(in core.InputFrame) {
	g.roundTicks++
	lanes := g.field.H - 2
	if in.Has(core.ActionUp) {
		g.lane = core.Clamp(g.lane-1, 0, lanes-1)
	}
	if in.Has(core.ActionDown) {
		g.lane = core.Clamp(g.lane+1, 0, lanes-1)
	}
	if in.Has(core.ActionRight) {
		g.thrust = thrustTicks
	}

	if g.thrust > 0 {
		g.thrust--
		g.tracker.AddSessionDistance(float32(g.cfg.ShipSpeed))
		g.roundFeet += g.cfg.ShipSpeed
	}

	g.asteroids.Update(g.roundFeet)
	if g.asteroids.CheckCollision(g.shipRect()) {
		g.finish(stats.Loss, "Hit an asteroid! Loss recorded")
		return
	}
	if g.roundFeet >= g.cfg.GoalFeet {
		g.sess.Platform.UploadLeaderboardScore(BoardQuickestWin, g.roundTicks)
		g.finish(stats.Win, fmt.Sprintf("Goal reached in %d ticks! Win recorded", g.roundTicks))
	}
}

// finish closes the round. The tracker ignores it until stats are loaded.
func (g *Game) finish(o stats.Outcome, msg string) {
	if g.tracker.State() != stats.StateActive {
		return
	}
	if g.roundFeet > 0 {
		g.sess.Platform.UploadLeaderboardScore(BoardFeetTraveled, int(g.roundFeet))
	}
	g.tracker.RecordSessionOutcome(o)
	g.sess.Logger.Info("round finished", "outcome", o, "feet", g.roundFeet, "ticks", g.roundTicks)
	g.newRound()
	g.showFlash(msg)
}

func (g *Game) showFlash(msg string) {
	g.flash = msg
	g.flashUntil = g.ticks + flashTicks
}

// shipRect is the ship's collision rectangle in field coordinates.
func (g *Game) shipRect() core.Rect {
	return core.NewRect(shipX, g.lane, 2, 1)
}

// Render draws stats on the left, achievements on the right and the
// playfield below the stats.
func (g *Game) Render(dst *core.Screen) {
	snap := g.tracker.Snapshot()
	if msg, ok := present.StatusMessage(snap); ok {
		dst.DrawTextCentered(dst.Height()/2, g.sess.Filter(msg), core.ColorGreenYellow)
		return
	}
	if snap.State != stats.StateActive {
		dst.DrawTextCentered(dst.Height()/2, "Waiting for stats...", core.ColorGray)
		return
	}

	dst.DrawLines(2, 0, g.sess.Filter(present.StatsLines(snap)), core.ColorWhite)

	for i, a := range snap.Achievements {
		block := g.sess.Filter(present.AchievementBlock(a))
		x := dst.Width() - core.TextWidth(block) - 2
		x = max(x, g.field.Right()+1)
		color := core.ColorWhite
		if a.Achieved {
			color = core.ColorGreenYellow
		}
		dst.DrawLines(x, core.TextHeight(block)*i, block, color)
	}

	g.renderField(dst)

	if g.flash != "" && g.ticks < g.flashUntil {
		dst.DrawTextColored(g.field.X+1, g.field.Bottom(), g.sess.Filter(g.flash), core.ColorYellow)
	}
	if g.paused {
		dst.DrawTextColored(g.field.X+2, g.field.Y, " PAUSED ", core.ColorYellow)
	}
	dst.DrawTextColored(0, dst.Height()-1, HelpLine, core.ColorGray)
}

func (g *Game) renderField(dst *core.Screen) {
	dst.DrawBox(g.field, core.ColorGray)
	ox, oy := g.field.X+1, g.field.Y+1

	progress := fmt.Sprintf(" %.0f/%.0f ft ", g.roundFeet, g.cfg.GoalFeet)
	dst.DrawTextColored(g.field.Right()-len(progress)-1, g.field.Y, progress, core.ColorCyan)

	for _, a := range g.asteroids.Asteroids() {
		r := a.Rect()
		dst.SetColored(ox+r.X, oy+r.Y, AsteroidChar, core.ColorRed)
	}

	ship := g.shipRect()
	body := core.ColorCornflower
	if g.thrust > 0 {
		body = core.ColorYellow
	}
	dst.SetColored(ox+ship.X, oy+ship.Y, ShipBody, body)
	dst.SetColored(ox+ship.X+1, oy+ship.Y, ShipNose, core.ColorCornflower)
}

// RoundFeet is the distance covered since the last outcome.
func (g *Game) RoundFeet() float64 { return g.roundFeet }

// Lane is the ship's row inside the playfield.
func (g *Game) Lane() int { return g.lane }

// State returns the current sample state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Ticks:  g.ticks,
		Paused: g.paused,
	}
}

// Register the sample with the registry
func init() {
	registry.Register("hunter", "Achievement Hunter", func(s *session.Session) registry.Game {
		return New(s)
	})
}
