// Package stats tracks player statistics and achievements against a
// platform stats service.
//
// The Tracker is driven once per frame by the host loop. All service
// requests are fire-and-forget; their results come back as typed
// Completion messages on a subscription channel, which the tracker drains
// at the start of every Update. Nothing in this package blocks or locks.
package stats

import "fmt"

// GameID identifies the game a completion belongs to. Completions carrying
// another game's id are ignored.
type GameID uint64

// Result is the outcome code attached to a completion.
type Result int

const (
	ResultOK Result = iota
	ResultFail
	ResultInvalidParam // one or more stats broke a server-side constraint and were reverted
	ResultNotLoggedOn
	ResultLimitExceeded
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultFail:
		return "Fail"
	case ResultInvalidParam:
		return "InvalidParam"
	case ResultNotLoggedOn:
		return "NotLoggedOn"
	case ResultLimitExceeded:
		return "LimitExceeded"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Completion is a message delivered by the service after an asynchronous
// request finishes, or when the platform has something to report.
type Completion interface {
	Source() GameID
}

// StatsReceived answers RequestCurrentStats.
type StatsReceived struct {
	Game   GameID
	User   string
	Result Result
}

// StatsStored answers StoreStats.
type StatsStored struct {
	Game   GameID
	Result Result
}

// AchievementStored is sent for every achievement committed by a store.
// MaxProgress is zero for an unlock and non-zero for a progress report.
type AchievementStored struct {
	Game        GameID
	Name        string
	CurProgress uint32
	MaxProgress uint32
}

func (c StatsReceived) Source() GameID     { return c.Game }
func (c StatsStored) Source() GameID       { return c.Game }
func (c AchievementStored) Source() GameID { return c.Game }

// Service is the platform's user-stats client as seen by the tracker.
//
// Getters return ok=false when the value is unknown, typically because
// stats have not been received yet or the name is not in the schema.
// Request methods return false when nothing was sent, in which case the
// caller should simply try again later.
type Service interface {
	// Available reports whether the platform client initialized.
	Available() bool
	// GameID is the identity that completions for this session carry.
	GameID() GameID

	RequestCurrentStats() bool
	GetStatInt(name string) (int32, bool)
	GetStatFloat(name string) (float32, bool)
	SetStatInt(name string, value int32) bool
	SetStatFloat(name string, value float32) bool
	GetAchievement(id string) (achieved bool, ok bool)
	SetAchievement(id string) bool
	// GetAchievementDisplayAttribute returns "name", "desc" or "hidden" for an id.
	GetAchievementDisplayAttribute(id, attr string) string
	StoreStats() bool
	ResetAllStats(alsoAchievements bool) bool

	// Subscribe returns a new channel that receives every completion
	// delivered after the call.
	Subscribe() <-chan Completion
	// Unsubscribe stops deliveries to ch and closes it. Unknown channels
	// are ignored.
	Unsubscribe(ch <-chan Completion)
}
