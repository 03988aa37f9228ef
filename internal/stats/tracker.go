package stats

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// State is the tracker's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateAwaitingStats
	StateActive
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateAwaitingStats:
		return "AwaitingStats"
	case StateActive:
		return "Active"
	case StateDisabled:
		return "Disabled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the result of a finished game session.
type Outcome int

const (
	Win Outcome = iota
	Loss
)

func (o Outcome) String() string {
	if o == Win {
		return "Win"
	}
	return "Loss"
}

// Counters are the persisted stats plus the distance of the running session.
type Counters struct {
	GamesPlayed     int32
	Wins            int32
	Losses          int32
	FeetTraveled    float32 // cumulative over all sessions
	MaxFeetTraveled float32 // longest single session
	SessionFeet     float32
}

// Options tune the tracker. Zero values pick the defaults.
type Options struct {
	// MaxFetchRetries bounds how often a failed stats fetch is re-requested.
	// Negative disables retries.
	MaxFetchRetries int
	// RetryDelayTicks is the number of ticks to wait before re-requesting.
	RetryDelayTicks int
	Logger          *log.Logger
}

const (
	DefaultMaxFetchRetries = 5
	DefaultRetryDelayTicks = 60
)

// Snapshot is a read-only copy of the tracker for presentation.
type Snapshot struct {
	State        State
	Counters     Counters
	Achievements []Achievement
	PendingStore bool
	Stalled      bool // fetch retries exhausted
	Err          error
}

// Achieved reports whether id is unlocked in the snapshot.
func (s Snapshot) Achieved(id AchievementID) bool {
	for _, a := range s.Achievements {
		if a.ID == id {
			return a.Achieved
		}
	}
	return false
}

// Tracker mirrors the player's stats and achievements and keeps them in sync
// with the service. It is not safe for concurrent use; the host loop owns it.
type Tracker struct {
	svc  Service
	log  *log.Logger
	opts Options

	game        GameID
	completions <-chan Completion

	state          State
	statsRequested bool
	statsValid     bool
	pendingStore   bool
	resync         bool // unlocks must be set again before the next store

	counters     Counters
	achievements []Achievement

	fetchFailures int
	retryIn       int
	stalled       bool
	lastErr       error
}

// NewTracker creates a tracker bound to svc. Nothing is requested until the
// first Update.
func NewTracker(svc Service, opts Options) *Tracker {
	if opts.MaxFetchRetries == 0 {
		opts.MaxFetchRetries = DefaultMaxFetchRetries
	}
	if opts.RetryDelayTicks <= 0 {
		opts.RetryDelayTicks = DefaultRetryDelayTicks
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		svc:          svc,
		log:          logger.WithPrefix("tracker"),
		opts:         opts,
		achievements: Catalog(),
	}
}

// State returns the current lifecycle state.
func (t *Tracker) State() State { return t.state }

// Update runs one tick: process completions, keep the fetch going, evaluate
// achievements and persist whatever changed.
func (t *Tracker) Update() {
	switch t.state {
	case StateDisabled:
		return
	case StateUninitialized:
		if !t.svc.Available() {
			t.state = StateDisabled
			t.statsRequested = true
			t.lastErr = ErrServiceUnavailable
			t.log.Warn("stats disabled", "err", ErrServiceUnavailable)
			return
		}
		t.subscribe()
		if !t.svc.RequestCurrentStats() {
			// Only fails when not logged on. Ask again next tick.
			return
		}
		t.statsRequested = true
		t.state = StateAwaitingStats
	}

	t.drain()

	if t.state == StateAwaitingStats {
		t.pollFetch()
	}
	if !t.statsValid {
		return
	}

	t.evaluate()
	t.persist()
}

// RecordSessionOutcome closes the running session as a win or a loss.
func (t *Tracker) RecordSessionOutcome(o Outcome) {
	if t.state != StateActive {
		return
	}
	c := &t.counters
	if o == Win {
		c.Wins++
	} else {
		c.Losses++
	}
	c.GamesPlayed++
	c.FeetTraveled += c.SessionFeet
	if c.SessionFeet > c.MaxFeetTraveled {
		c.MaxFeetTraveled = c.SessionFeet
	}
	c.SessionFeet = 0
	t.pendingStore = true
}

// AddSessionDistance accumulates distance for the running session.
// Negative deltas are ignored.
func (t *Tracker) AddSessionDistance(delta float32) {
	if t.state != StateActive || delta < 0 {
		return
	}
	t.counters.SessionFeet += delta
}

// ResetSessionDistance zeroes the running session's distance.
func (t *Tracker) ResetSessionDistance() {
	if t.state != StateActive {
		return
	}
	t.counters.SessionFeet = 0
}

// ResetAll wipes every stat and achievement on the service and starts a
// fresh fetch.
func (t *Tracker) ResetAll() {
	if t.state == StateDisabled || !t.svc.Available() {
		return
	}
	t.subscribe()
	if !t.svc.ResetAllStats(true) {
		t.log.Warn("ResetAllStats - not sent")
	}
	for i := range t.achievements {
		t.achievements[i].Achieved = false
	}
	t.counters = Counters{}
	t.statsValid = false
	t.pendingStore = false
	t.resync = false
	t.fetchFailures = 0
	t.retryIn = 0
	t.stalled = false
	t.lastErr = nil
	t.state = StateAwaitingStats
	t.statsRequested = t.svc.RequestCurrentStats()
}

// Snapshot copies the tracker's visible state.
func (t *Tracker) Snapshot() Snapshot {
	achievements := make([]Achievement, len(t.achievements))
	copy(achievements, t.achievements)
	return Snapshot{
		State:        t.state,
		Counters:     t.counters,
		Achievements: achievements,
		PendingStore: t.pendingStore,
		Stalled:      t.stalled,
		Err:          t.lastErr,
	}
}

func (t *Tracker) subscribe() {
	if t.completions != nil {
		return
	}
	t.game = t.svc.GameID()
	t.completions = t.svc.Subscribe()
}

func (t *Tracker) drain() {
	for {
		select {
		case c, ok := <-t.completions:
			if !ok {
				t.completions = nil
				return
			}
			t.handle(c)
		default:
			return
		}
	}
}

func (t *Tracker) handle(c Completion) {
	// Completions for other games arrive on the same channel.
	if c.Source() != t.game {
		return
	}
	switch c := c.(type) {
	case StatsReceived:
		t.onStatsReceived(c)
	case StatsStored:
		t.onStatsStored(c)
	case AchievementStored:
		if c.MaxProgress == 0 {
			t.log.Info("achievement unlocked", "name", c.Name)
		} else {
			t.log.Info("achievement progress", "name", c.Name, "cur", c.CurProgress, "max", c.MaxProgress)
		}
	}
}

func (t *Tracker) onStatsReceived(c StatsReceived) {
	if c.Result != ResultOK {
		t.lastErr = fmt.Errorf("%w: %s", ErrFetchFailed, c.Result)
		t.log.Warn("RequestStats - failed", "result", c.Result)
		if t.state != StateAwaitingStats {
			return
		}
		t.statsRequested = false
		t.fetchFailures++
		if t.opts.MaxFetchRetries < 0 || t.fetchFailures > t.opts.MaxFetchRetries {
			t.stalled = true
			t.log.Error("giving up on stats", "attempts", t.fetchFailures)
			return
		}
		t.retryIn = t.opts.RetryDelayTicks
		return
	}

	if t.state != StateAwaitingStats {
		// Another consumer asked for stats. The local values are newer than
		// the service's, and the reload dropped whatever was not stored yet.
		t.log.Debug("ignoring stats received while active", "user", c.User)
		if t.pendingStore {
			t.resync = true
		}
		return
	}

	t.log.Info("received stats and achievements", "user", c.User)
	t.load()
	t.statsValid = true
	t.state = StateActive
	t.fetchFailures = 0
	t.stalled = false
	t.lastErr = nil
}

func (t *Tracker) onStatsStored(c StatsStored) {
	switch c.Result {
	case ResultOK:
		t.log.Info("StoreStats - success")
	case ResultInvalidParam:
		if t.state != StateActive {
			// Stored before ResetAll. The fetch in flight reloads everything.
			t.log.Debug("StoreStats - stale validation result ignored")
			return
		}
		// The service reverted what broke a constraint. Re-read instead of
		// resubmitting the same values.
		t.lastErr = ErrValidationRejected
		t.log.Warn("StoreStats - some failed to validate")
		t.load()
	default:
		t.lastErr = fmt.Errorf("%w: %s", ErrStoreFailed, c.Result)
		t.log.Error("StoreStats - failed", "result", c.Result)
		if t.state == StateActive {
			t.pendingStore = true
		}
	}
}

func (t *Tracker) pollFetch() {
	if t.statsRequested || t.stalled {
		return
	}
	if t.retryIn > 0 {
		t.retryIn--
		return
	}
	t.statsRequested = t.svc.RequestCurrentStats()
}

// load copies the service's authoritative values into the tracker.
func (t *Tracker) load() {
	for i := range t.achievements {
		a := &t.achievements[i]
		api := a.ID.String()
		achieved, ok := t.svc.GetAchievement(api)
		if !ok {
			t.log.Warn("GetAchievement failed, is it registered?", "id", api)
			continue
		}
		a.Achieved = a.Achieved || achieved
		if name := t.svc.GetAchievementDisplayAttribute(api, "name"); name != "" {
			a.Name = name
		}
		if desc := t.svc.GetAchievementDisplayAttribute(api, "desc"); desc != "" {
			a.Description = desc
		}
	}

	c := &t.counters
	for _, s := range []struct {
		name string
		dst  *int32
	}{
		{StatNumGames, &c.GamesPlayed},
		{StatNumWins, &c.Wins},
		{StatNumLosses, &c.Losses},
	} {
		if v, ok := t.svc.GetStatInt(s.name); ok {
			*s.dst = v
		}
	}
	if v, ok := t.svc.GetStatFloat(StatFeetTraveled); ok {
		c.FeetTraveled = v
	}
	if v, ok := t.svc.GetStatFloat(StatMaxFeetTraveled); ok {
		c.MaxFeetTraveled = v
	}
}

func (t *Tracker) evaluate() {
	for i := range t.achievements {
		a := &t.achievements[i]
		if a.Achieved || !Met(a.ID, t.counters) {
			continue
		}
		a.Achieved = true
		if !t.svc.SetAchievement(a.ID.String()) {
			t.log.Warn("SetAchievement failed", "id", a.ID)
		}
		t.pendingStore = true
	}
}

func (t *Tracker) persist() {
	if !t.pendingStore {
		return
	}
	c := t.counters
	t.svc.SetStatInt(StatNumGames, c.GamesPlayed)
	t.svc.SetStatInt(StatNumWins, c.Wins)
	t.svc.SetStatInt(StatNumLosses, c.Losses)
	t.svc.SetStatFloat(StatFeetTraveled, c.FeetTraveled)
	t.svc.SetStatFloat(StatMaxFeetTraveled, c.MaxFeetTraveled)
	if t.resync {
		for _, a := range t.achievements {
			if a.Achieved {
				t.svc.SetAchievement(a.ID.String())
			}
		}
	}

	// A refused store never reached the server. Keep the flag and retry.
	if t.svc.StoreStats() {
		t.pendingStore = false
		t.resync = false
		return
	}
	t.lastErr = fmt.Errorf("%w: request not sent", ErrStoreFailed)
	t.log.Debug("StoreStats - not sent, retrying next tick")
}
