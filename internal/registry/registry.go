// Package registry provides a global registry for sample factories.
// Samples register themselves in init() functions, allowing the host
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-hunter/internal/core"
	"github.com/vovakirdan/tui-hunter/internal/session"
)

// Game is the interface every sample implements.
// Samples hold pure frame logic with no Bubble Tea dependency; the host
// handles input mapping, timing and rendering.
type Game interface {
	// ID returns a unique identifier (e.g. "hunter"), used by the CLI.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the sample.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the sample by one frame. The host has already pumped
	// platform callbacks for this frame.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current frame into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current sample state.
	State() core.GameState
}

// Resizer is implemented by samples that can lay out again without
// restarting. Hosts call Reset for samples that do not.
type Resizer interface {
	Resize(cfg core.RuntimeConfig)
}

// Leaver is implemented by samples that hold platform resources, such as
// a completion subscription, past the host's use of them.
type Leaver interface {
	Leave()
}

// Resize lays g out for cfg, falling back to Reset.
func Resize(g Game, cfg core.RuntimeConfig) {
	if r, ok := g.(Resizer); ok {
		r.Resize(cfg)
		return
	}
	g.Reset(cfg)
}

// Leave releases what g holds. The host must not step g afterwards.
func Leave(g Game) {
	if l, ok := g.(Leaver); ok {
		l.Leave()
	}
}

// GameInfo contains metadata about a registered sample.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a sample bound to a player session.
type Factory func(sess *session.Session) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a sample factory to the registry.
// Panics if a sample with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = title
}

// List returns information about all registered samples, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a sample for the session.
// Returns an error if the ID is not registered.
func Create(id string, sess *session.Session) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	if sess == nil {
		return nil, fmt.Errorf("registry: game %q needs a session", id)
	}
	return f(sess), nil
}

// Exists checks if a sample with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
