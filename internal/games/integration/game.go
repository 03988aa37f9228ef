// Package integration shows the platform data a game can read: languages,
// install dir, overlay state, playtime and the answers of async calls.
package integration

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/platform"
	"github.com/vovakirdan/tui-hunter/internal/registry"
	"github.com/vovakirdan/tui-hunter/internal/session"
	"github.com/vovakirdan/tui-hunter/internal/stats"
)

// NotRunningMessage replaces the panel when the platform is unavailable.
const NotRunningMessage = "Please start your platform client to receive data!"

// LeaderboardName is looked up on start.
const LeaderboardName = "Quickest Win"

const (
	avatarW   = 10
	avatarH   = 5
	bobSpeed  = 2.0 // radians per second
	bobHeight = 2.0 // cells
)

// Game implements the platform integration sample.
type Game struct {
	sess        *session.Session
	completions <-chan stats.Completion
	runtime     core.RuntimeConfig
	ticks       uint64

	userName        string
	currentLanguage string
	languages       string
	installDir      string
	overlayActive   bool
	userStats       string
	personaState    string
	leaderboard     string
	currentPlayers  string
}

// New creates the sample for a session.
func New(sess *session.Session) *Game {
	return &Game{sess: sess}
}

func (g *Game) ID() string    { return "integration" }
func (g *Game) Title() string { return "Platform Integration" }

// Reset collects the static data and fires the async requests.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.ticks = 0
	p := g.sess.Platform
	if !p.Available() {
		return
	}
	if g.completions == nil {
		g.completions = p.Subscribe()
	}

	g.currentLanguage = "CurrentGameLanguage: " + p.CurrentGameLanguage()
	g.languages = "Languages: " + p.AvailableGameLanguages()
	dir := p.AppInstallDir()
	g.installDir = fmt.Sprintf("AppInstallDir: %d %s", len(dir), dir)
	g.userName = strings.TrimSpace(g.sess.Filter(p.PersonaName()))
	g.overlayActive = p.OverlayActive()

	g.userStats = fmt.Sprintf("Requesting Current Stats - %t", p.RequestCurrentStats())
	if !p.RequestNumberOfCurrentPlayers() {
		g.currentPlayers = "[NumberOfCurrentPlayers] - request failed"
	}
	if !p.FindLeaderboard(LeaderboardName) {
		g.leaderboard = "[LeaderboardFindResult] - request failed"
	}
}

// Resize keeps the collected data; only the layout depends on the size.
func (g *Game) Resize(runtime core.RuntimeConfig) {
	g.runtime = runtime
}

// Leave drops the completion subscription. The menu builds a new sample
// per visit.
func (g *Game) Leave() {
	if g.completions != nil {
		g.sess.Platform.Unsubscribe(g.completions)
		g.completions = nil
	}
}

func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.ticks++
	if !g.sess.Platform.Available() {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionOverlay) {
		g.sess.Platform.ToggleOverlay()
	}
	g.drain()
	return core.StepResult{State: g.State()}
}

func (g *Game) drain() {
	game := g.sess.Platform.GameID()
	for {
		select {
		case c, ok := <-g.completions:
			if !ok {
				g.completions = nil
				return
			}
			if c.Source() == game {
				g.handle(c)
			}
		default:
			return
		}
	}
}

func (g *Game) handle(c stats.Completion) {
	switch c := c.(type) {
	case platform.OverlayActivated:
		g.overlayActive = c.Active
	case platform.NumberOfCurrentPlayers:
		g.currentPlayers = fmt.Sprintf("[NumberOfCurrentPlayers] - %t -- %d", c.Success, c.Players)
	case platform.LeaderboardFound:
		g.leaderboard = fmt.Sprintf("[LeaderboardFindResult] - %t -- %s", c.Found, c.Handle)
	case platform.PersonaStateChange:
		g.personaState = fmt.Sprintf("[PersonaStateChange] - %s -- %s", c.User, c.Name)
	case stats.StatsReceived:
		g.userStats = fmt.Sprintf("[UserStatsReceived] - %s -- %d -- %s", c.Result, c.Game, c.User)
	}
}

// DataLines is the upper left panel.
func (g *Game) DataLines() []string {
	return []string{
		g.currentLanguage,
		g.languages,
		g.installDir,
		"",
		fmt.Sprintf("Overlay Active: %t", g.overlayActive),
		fmt.Sprintf("App PlayTime: %d", g.sess.Platform.SecondsSinceAppActive()),
	}
}

// CallbackLines is the lower left panel.
func (g *Game) CallbackLines() []string {
	return []string{g.currentPlayers, g.personaState, g.userStats, g.leaderboard}
}

// AvatarOffset is the vertical bob of the avatar. It holds still while the
// overlay is open.
func (g *Game) AvatarOffset() int {
	if g.overlayActive {
		return 0
	}
	seconds := float64(g.ticks) / float64(max(g.runtime.TickRate, 1))
	return int(math.Round(math.Sin(seconds*bobSpeed) * bobHeight))
}

func (g *Game) Render(dst *core.Screen) {
	if !g.sess.Platform.Available() {
		dst.DrawTextCentered(dst.Height()/2, NotRunningMessage, core.ColorWhite)
		return
	}

	for i, line := range g.DataLines() {
		dst.DrawTextColored(2, 1+i, g.sess.Filter(line), core.ColorWhite)
	}
	callbacks := g.CallbackLines()
	top := dst.Height() - len(callbacks) - 1
	for i, line := range callbacks {
		dst.DrawTextColored(2, top+i, g.sess.Filter(line), core.ColorWhite)
	}

	cx := dst.Width() * 3 / 4
	cy := dst.Height()/2 + g.AvatarOffset()
	avatar := core.NewRect(cx-avatarW/2, cy-avatarH/2, avatarW, avatarH)
	dst.DrawRect(avatar, '░', core.ColorCornflower)
	dst.DrawBox(avatar, core.ColorCornflower)
	if initial := initialOf(g.userName); initial != 0 {
		dst.SetColored(cx, cy, initial, core.ColorYellow)
	}
	nameX := cx - core.TextWidth(g.userName)/2
	dst.DrawTextColored(nameX, avatar.Y-2, g.userName, core.ColorYellow)
}

func (g *Game) State() core.GameState {
	return core.GameState{Ticks: g.ticks}
}

func initialOf(name string) rune {
	for _, r := range strings.ToUpper(name) {
		return r
	}
	return 0
}

func init() {
	registry.Register("integration", "Platform Integration", func(s *session.Session) registry.Game {
		return New(s)
	})
}
