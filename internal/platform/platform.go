// Package platform defines the client-side view of the gaming platform
// that samples talk to. The stats part is stats.Service; the rest covers
// persona, app and overlay data plus the asynchronous call results that
// arrive alongside stats completions.
package platform

import "github.com/vovakirdan/tui-hunter/internal/stats"

// Platform is the platform client handed to every session.
type Platform interface {
	stats.Service

	// RunCallbacks delivers queued completions to subscribers. The host
	// calls it once per frame before ticking the active sample.
	RunCallbacks()

	PersonaName() string
	CurrentGameLanguage() string
	// AvailableGameLanguages is a comma separated list.
	AvailableGameLanguages() string
	AppInstallDir() string
	SecondsSinceAppActive() uint32

	// RequestNumberOfCurrentPlayers answers with NumberOfCurrentPlayers.
	RequestNumberOfCurrentPlayers() bool
	// FindLeaderboard answers with LeaderboardFound.
	FindLeaderboard(name string) bool
	// UploadLeaderboardScore answers with LeaderboardScoreUploaded.
	UploadLeaderboardScore(board string, score int) bool

	OverlayActive() bool
	// ToggleOverlay flips the overlay and announces it with OverlayActivated.
	ToggleOverlay()

	Close() error
}

// NumberOfCurrentPlayers answers RequestNumberOfCurrentPlayers.
type NumberOfCurrentPlayers struct {
	Game    stats.GameID
	Success bool
	Players int
}

// LeaderboardFound answers FindLeaderboard.
type LeaderboardFound struct {
	Game       stats.GameID
	Found      bool
	Name       string
	Handle     string
	EntryCount int
}

// LeaderboardScoreUploaded answers UploadLeaderboardScore.
type LeaderboardScoreUploaded struct {
	Game    stats.GameID
	Success bool
	Board   string
	Score   int
	Rank    int // 1-based global rank, 0 when unknown
}

// OverlayActivated is sent whenever the overlay opens or closes.
type OverlayActivated struct {
	Game   stats.GameID
	Active bool
}

// PersonaStateChange is sent when the user's persona data changes.
type PersonaStateChange struct {
	Game stats.GameID
	User string
	Name string
}

func (c NumberOfCurrentPlayers) Source() stats.GameID   { return c.Game }
func (c LeaderboardFound) Source() stats.GameID         { return c.Game }
func (c LeaderboardScoreUploaded) Source() stats.GameID { return c.Game }
func (c OverlayActivated) Source() stats.GameID         { return c.Game }
func (c PersonaStateChange) Source() stats.GameID       { return c.Game }
