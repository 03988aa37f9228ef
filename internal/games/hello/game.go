// Package hello is the smallest sample: it greets the logged on persona.
package hello

import (
	"strings"

	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/present"
	"github.com/vovakirdan/tui-hunter/internal/registry"
	"github.com/vovakirdan/tui-hunter/internal/session"
)

// OverlayNote is shown under the greeting while the platform is running.
const OverlayNote = "- Press [Shift + Tab] to open the overlay -"

// Game implements the hello sample.
type Game struct {
	sess    *session.Session
	message string
	ticks   uint64
	overlay bool
}

// New creates the sample for a session.
func New(sess *session.Session) *Game {
	return &Game{sess: sess}
}

func (g *Game) ID() string    { return "hello" }
func (g *Game) Title() string { return "Hello Platform" }

// Reset builds the greeting from the persona name.
func (g *Game) Reset(core.RuntimeConfig) {
	g.ticks = 0
	g.message = present.UnavailableMessage
	if !g.sess.Platform.Available() {
		return
	}
	// Persona names may carry emoji the font cannot draw.
	name := strings.TrimSpace(g.sess.Filter(g.sess.Platform.PersonaName()))
	g.message = "Hello " + name + "!"
}

// Resize has nothing to lay out; the greeting is centered at render time.
func (g *Game) Resize(core.RuntimeConfig) {}

// Message is the greeting or the error shown in its place.
func (g *Game) Message() string { return g.message }

func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.ticks++
	if in.Has(core.ActionOverlay) {
		g.sess.Platform.ToggleOverlay()
	}
	g.overlay = g.sess.Platform.OverlayActive()
	return core.StepResult{State: g.State()}
}

func (g *Game) Render(dst *core.Screen) {
	mid := dst.Height() / 2
	if !g.sess.Platform.Available() {
		dst.DrawTextCentered(mid, g.message, core.ColorGreenYellow)
		return
	}
	dst.DrawTextCentered(mid-1, g.message, core.ColorGreenYellow)
	dst.DrawTextCentered(mid+1, OverlayNote, core.ColorGreenYellow)
	if g.overlay {
		drawOverlay(dst)
	}
}

func (g *Game) State() core.GameState {
	return core.GameState{Ticks: g.ticks}
}

// drawOverlay stands in for the platform overlay in a terminal.
func drawOverlay(dst *core.Screen) {
	w, h := dst.Width()*2/3, 5
	box := core.NewRect((dst.Width()-w)/2, 1, w, h)
	dst.DrawRect(box, ' ', core.ColorCornflower)
	dst.DrawBox(box, core.ColorCornflower)
	dst.DrawTextCentered(box.Y+2, "Overlay active. Shift+Tab to close.", core.ColorCornflower)
}

func init() {
	registry.Register("hello", "Hello Platform", func(s *session.Session) registry.Game {
		return New(s)
	})
}
