package stats

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func newTestTracker(svc Service, opts Options) *Tracker {
	opts.Logger = log.New(io.Discard)
	return NewTracker(svc, opts)
}

// activate drives a fresh tracker to Active with whatever svc holds.
func activate(t *testing.T, tr *Tracker, svc *fakeService) {
	t.Helper()
	tr.Update()
	require.Equal(t, StateAwaitingStats, tr.State())
	svc.received(ResultOK)
	tr.Update()
	require.Equal(t, StateActive, tr.State())
}

func ticks(tr *Tracker, n int) {
	for range n {
		tr.Update()
	}
}

func TestUnavailableServiceDisablesTracker(t *testing.T) {
	svc := newFakeService()
	svc.available = false
	tr := newTestTracker(svc, Options{})

	tr.Update()
	require.Equal(t, StateDisabled, tr.State())

	tr.AddSessionDistance(700)
	tr.RecordSessionOutcome(Win)
	tr.ResetSessionDistance()
	tr.ResetAll()
	ticks(tr, 10)

	snap := tr.Snapshot()
	require.Equal(t, StateDisabled, snap.State)
	require.Equal(t, Counters{}, snap.Counters)
	require.False(t, snap.PendingStore)
	require.ErrorIs(t, snap.Err, ErrServiceUnavailable)
	require.Zero(t, svc.requests)
	require.Zero(t, svc.stores)
	require.Zero(t, svc.resets)
	require.Empty(t, svc.setAch)
}

func TestRequestRefusedIsRetriedNextTick(t *testing.T) {
	svc := newFakeService()
	svc.requestOK = false
	tr := newTestTracker(svc, Options{})

	tr.Update()
	require.Equal(t, StateUninitialized, tr.State())
	tr.Update()
	require.Equal(t, 2, svc.requests)

	svc.requestOK = true
	tr.Update()
	require.Equal(t, StateAwaitingStats, tr.State())
	require.Equal(t, 3, svc.requests)

	ticks(tr, 5)
	require.Equal(t, 3, svc.requests, "no new request while one is in flight")
}

func TestOperationsIgnoredBeforeActive(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	tr.Update()

	tr.AddSessionDistance(100)
	tr.RecordSessionOutcome(Win)
	require.Equal(t, Counters{}, tr.Snapshot().Counters)
	require.False(t, tr.Snapshot().PendingStore)
}

func TestLoadCopiesServiceValues(t *testing.T) {
	svc := newFakeService()
	svc.ints[StatNumGames] = 7
	svc.ints[StatNumWins] = 4
	svc.ints[StatNumLosses] = 3
	svc.floats[StatFeetTraveled] = 1200
	svc.floats[StatMaxFeetTraveled] = 400
	svc.achieved[AchWinOneGame.String()] = true
	svc.display[AchWinOneGame.String()+"/name"] = "First Blood"
	svc.display[AchWinOneGame.String()+"/desc"] = "Win a game"
	tr := newTestTracker(svc, Options{})

	activate(t, tr, svc)

	snap := tr.Snapshot()
	require.Equal(t, Counters{GamesPlayed: 7, Wins: 4, Losses: 3, FeetTraveled: 1200, MaxFeetTraveled: 400}, snap.Counters)
	require.True(t, snap.Achieved(AchWinOneGame))
	require.Equal(t, "First Blood", snap.Achievements[0].Name)
	require.Equal(t, "Win a game", snap.Achievements[0].Description)
	require.Equal(t, "Champion", snap.Achievements[1].Name, "name kept when the service has none")
	require.Zero(t, svc.setAch[AchWinOneGame.String()], "already achieved on the service")
	require.Zero(t, svc.stores)
}

func TestOutcomeInvariants(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		distance []float32
	}{
		{"single win", []Outcome{Win}, []float32{10}},
		{"single loss", []Outcome{Loss}, []float32{0}},
		{"mixed", []Outcome{Win, Loss, Loss, Win, Win}, []float32{120, 0, 33.5, 600, 12}},
		{"long losing streak", []Outcome{Loss, Loss, Loss, Loss}, []float32{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			tr := newTestTracker(svc, Options{})
			activate(t, tr, svc)

			var lastCumulative float32
			var longest float32
			for i, o := range tt.outcomes {
				tr.AddSessionDistance(tt.distance[i])
				longest = max(longest, tt.distance[i])
				tr.RecordSessionOutcome(o)
				tr.Update()

				c := tr.Snapshot().Counters
				require.Equal(t, c.Wins+c.Losses, c.GamesPlayed)
				require.Zero(t, c.SessionFeet)
				require.GreaterOrEqual(t, c.FeetTraveled, lastCumulative)
				require.GreaterOrEqual(t, c.MaxFeetTraveled, tt.distance[i])
				lastCumulative = c.FeetTraveled
			}
			require.Equal(t, longest, tr.Snapshot().Counters.MaxFeetTraveled)
		})
	}
}

func TestNegativeDistanceIgnored(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.AddSessionDistance(40)
	tr.AddSessionDistance(-25)
	require.Equal(t, float32(40), tr.Snapshot().Counters.SessionFeet)

	tr.ResetSessionDistance()
	require.Zero(t, tr.Snapshot().Counters.SessionFeet)
}

func TestFirstWinUnlocksOnce(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.RecordSessionOutcome(Win)
	tr.Update()
	ticks(tr, 5)

	require.True(t, tr.Snapshot().Achieved(AchWinOneGame))
	require.Equal(t, 1, svc.setAch[AchWinOneGame.String()])
	require.Len(t, svc.setAch, 1)
	require.Equal(t, 1, svc.stores, "outcome and unlock persist in one store")
	require.Equal(t, int32(1), svc.ints[StatNumWins])
	require.Equal(t, int32(1), svc.ints[StatNumGames])
}

func TestCumulativeDistanceUnlock(t *testing.T) {
	svc := newFakeService()
	svc.floats[StatFeetTraveled] = 5000
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.AddSessionDistance(300)
	tr.Update()
	require.False(t, tr.Snapshot().Achieved(AchTravelFarAccum))

	tr.RecordSessionOutcome(Win)
	tr.Update()

	snap := tr.Snapshot()
	require.Equal(t, float32(5300), snap.Counters.FeetTraveled)
	require.True(t, snap.Achieved(AchTravelFarAccum))
	require.False(t, snap.Achieved(AchTravelFarSingle))
	require.Equal(t, float32(5300), svc.floats[StatFeetTraveled])
}

func TestSingleSessionDistanceUnlock(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.AddSessionDistance(499)
	tr.Update()
	require.False(t, tr.Snapshot().Achieved(AchTravelFarSingle))

	tr.AddSessionDistance(1)
	tr.Update()
	require.True(t, tr.Snapshot().Achieved(AchTravelFarSingle))
	require.Equal(t, 1, svc.stores)
}

func TestVeteranNeedsHundredWins(t *testing.T) {
	svc := newFakeService()
	svc.ints[StatNumWins] = 98
	svc.ints[StatNumGames] = 98
	svc.achieved[AchWinOneGame.String()] = true
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.RecordSessionOutcome(Win)
	tr.Update()
	require.False(t, tr.Snapshot().Achieved(AchWin100Games))

	tr.RecordSessionOutcome(Win)
	tr.Update()
	require.True(t, tr.Snapshot().Achieved(AchWin100Games))
	require.Equal(t, 1, svc.setAch[AchWin100Games.String()])
}

func TestHeavyFireNeverEvaluated(t *testing.T) {
	svc := newFakeService()
	svc.ints[StatNumWins] = 500
	svc.floats[StatFeetTraveled] = 1e6
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	require.Zero(t, svc.setAch[AchHeavyFire.String()])
	require.False(t, tr.Snapshot().Achieved(AchHeavyFire))
	require.Len(t, tr.Snapshot().Achievements, 4)
}

func TestAchievementsStickUntilReset(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.RecordSessionOutcome(Win)
	tr.Update()
	require.True(t, tr.Snapshot().Achieved(AchWinOneGame))

	// The service forgets the unlock but the tracker does not.
	svc.achieved[AchWinOneGame.String()] = false
	svc.ch <- StatsStored{Game: svc.game, Result: ResultInvalidParam}
	tr.Update()
	require.True(t, tr.Snapshot().Achieved(AchWinOneGame))

	tr.ResetAll()
	for _, a := range tr.Snapshot().Achievements {
		require.False(t, a.Achieved, a.ID.String())
	}
}

func TestResetAllRestoresServiceValues(t *testing.T) {
	svc := newFakeService()
	svc.floats[StatFeetTraveled] = 6000
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.AddSessionDistance(250)
	tr.RecordSessionOutcome(Loss)
	tr.AddSessionDistance(90)
	tr.Update()
	require.True(t, tr.Snapshot().Achieved(AchTravelFarAccum))
	requestsBefore := svc.requests

	tr.ResetAll()
	snap := tr.Snapshot()
	require.Equal(t, StateAwaitingStats, snap.State)
	require.Zero(t, snap.Counters.SessionFeet)
	require.Equal(t, 1, svc.resets)
	require.Equal(t, requestsBefore+1, svc.requests)

	// Values the service holds after the reset are what the tracker shows.
	svc.ints[StatNumGames] = 2
	svc.ints[StatNumLosses] = 2
	svc.received(ResultOK)
	tr.Update()

	snap = tr.Snapshot()
	require.Equal(t, StateActive, snap.State)
	require.Equal(t, Counters{GamesPlayed: 2, Losses: 2}, snap.Counters)
	require.False(t, snap.Achieved(AchTravelFarAccum))
	require.NoError(t, snap.Err)
}

func TestStaleCompletionsIgnored(t *testing.T) {
	svc := newFakeService()
	svc.ints[StatNumWins] = 3
	tr := newTestTracker(svc, Options{})
	tr.Update()

	svc.ch <- StatsReceived{Game: svc.game + 1, Result: ResultOK}
	tr.Update()
	require.Equal(t, StateAwaitingStats, tr.State())
	require.Zero(t, tr.Snapshot().Counters.Wins)

	svc.ch <- StatsReceived{Game: svc.game + 1, Result: ResultFail}
	tr.Update()
	require.NoError(t, tr.Snapshot().Err)
}

func TestInvalidParamStoreRereadsValues(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.AddSessionDistance(200)
	tr.RecordSessionOutcome(Win)
	tr.Update()
	require.Equal(t, 1, svc.stores)

	// The service reverted the distance it did not accept.
	svc.floats[StatFeetTraveled] = 0
	svc.floats[StatMaxFeetTraveled] = 0
	svc.ch <- StatsStored{Game: svc.game, Result: ResultInvalidParam}
	tr.Update()

	snap := tr.Snapshot()
	require.Equal(t, StateActive, snap.State)
	require.Zero(t, snap.Counters.FeetTraveled)
	require.Equal(t, int32(1), snap.Counters.Wins)
	require.ErrorIs(t, snap.Err, ErrValidationRejected)
	require.False(t, snap.PendingStore)
	require.Equal(t, 1, svc.stores, "rejected values are not resubmitted")
}

func TestStoreFailureCompletionRecorded(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	svc.ch <- StatsStored{Game: svc.game, Result: ResultFail}
	tr.Update()
	require.ErrorIs(t, tr.Snapshot().Err, ErrStoreFailed)
	require.Equal(t, StateActive, tr.State())
	require.Equal(t, 1, svc.stores, "a failed store is sent again")
	require.False(t, tr.Snapshot().PendingStore)
}

func TestStatsReceivedWhileActiveKeepsLocalValues(t *testing.T) {
	svc := newFakeService()
	svc.storeOK = false
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.AddSessionDistance(300)
	tr.RecordSessionOutcome(Win)
	tr.Update()
	require.True(t, tr.Snapshot().PendingStore)
	require.Equal(t, 1, svc.setAch[AchWinOneGame.String()])

	// Someone else fetched; the service dropped the unsent values.
	svc.zero()
	svc.received(ResultOK)
	tr.Update()

	snap := tr.Snapshot()
	require.Equal(t, int32(1), snap.Counters.Wins)
	require.Equal(t, float32(300), snap.Counters.FeetTraveled)
	require.True(t, snap.Achieved(AchWinOneGame))

	svc.storeOK = true
	tr.Update()
	require.False(t, tr.Snapshot().PendingStore)
	require.Equal(t, int32(1), svc.ints[StatNumWins])
	require.Equal(t, float32(300), svc.floats[StatFeetTraveled])
	require.True(t, svc.achieved[AchWinOneGame.String()], "unlock is set again")

	require.Equal(t, 3, svc.stores)

	// Unlocks are only set again until a store goes through.
	tr.Update()
	require.Equal(t, 3, svc.setAch[AchWinOneGame.String()])
	require.Equal(t, 3, svc.stores)
}

func TestStaleInvalidParamAfterResetAll(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.RecordSessionOutcome(Win)
	tr.Update()
	tr.ResetAll()

	svc.ch <- StatsStored{Game: svc.game, Result: ResultInvalidParam}
	tr.Update()
	snap := tr.Snapshot()
	require.Equal(t, StateAwaitingStats, snap.State)
	require.NoError(t, snap.Err)

	svc.received(ResultOK)
	tr.Update()
	require.Equal(t, StateActive, tr.State())
	require.Zero(t, tr.Snapshot().Counters.Wins)
}

func TestRefusedStoreKeepsPending(t *testing.T) {
	svc := newFakeService()
	svc.storeOK = false
	tr := newTestTracker(svc, Options{})
	activate(t, tr, svc)

	tr.RecordSessionOutcome(Loss)
	tr.Update()
	snap := tr.Snapshot()
	require.True(t, snap.PendingStore)
	require.ErrorIs(t, snap.Err, ErrStoreFailed)

	tr.Update()
	require.Equal(t, 2, svc.stores)

	svc.storeOK = true
	tr.Update()
	require.False(t, tr.Snapshot().PendingStore)
	require.Equal(t, 3, svc.stores)

	tr.Update()
	require.Equal(t, 3, svc.stores)
}

func TestFetchRetryIsBounded(t *testing.T) {
	svc := newFakeService()
	tr := newTestTracker(svc, Options{MaxFetchRetries: 2, RetryDelayTicks: 3})
	tr.Update()
	require.Equal(t, 1, svc.requests)

	for attempt := 2; attempt <= 3; attempt++ {
		svc.received(ResultFail)
		tr.Update()
		ticks(tr, 2)
		require.Equal(t, attempt-1, svc.requests, "waits for the delay")
		tr.Update()
		require.Equal(t, attempt, svc.requests)
	}

	svc.received(ResultFail)
	ticks(tr, 20)
	snap := tr.Snapshot()
	require.Equal(t, 3, svc.requests)
	require.True(t, snap.Stalled)
	require.Equal(t, StateAwaitingStats, snap.State)
	require.True(t, errors.Is(snap.Err, ErrFetchFailed))

	tr.ResetAll()
	require.False(t, tr.Snapshot().Stalled)
	require.Equal(t, 4, svc.requests)
	svc.received(ResultOK)
	tr.Update()
	require.Equal(t, StateActive, tr.State())
}

func TestAchievementIDNames(t *testing.T) {
	require.Equal(t, "ACH_WIN_ONE_GAME", AchWinOneGame.String())
	require.Equal(t, "ACH_WIN_100_GAMES", AchWin100Games.String())
	require.Equal(t, "ACH_HEAVY_FIRE", AchHeavyFire.String())
	require.Equal(t, "ACH_TRAVEL_FAR_ACCUM", AchTravelFarAccum.String())
	require.Equal(t, "ACH_TRAVEL_FAR_SINGLE", AchTravelFarSingle.String())
}
