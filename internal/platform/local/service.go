// Package local emulates the platform client on top of the SQLite store.
//
// It behaves like a remote stats backend: values are only readable after
// RequestCurrentStats has been answered, writes stay local until
// StoreStats, the "server" validates every stat against its schema and
// reverts what breaks a constraint, and every answer is delivered as a
// completion on the next RunCallbacks pump.
package local

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/platform"
	"github.com/vovakirdan/tui-hunter/internal/stats"
	"github.com/vovakirdan/tui-hunter/internal/storage"
)

const subscriberBuffer = 64

// Options configure a Service. Store and Config are required for an
// available client; a nil Store or Offline gives an unavailable one.
type Options struct {
	Store   *storage.Store
	Config  config.Config
	User    string
	Offline bool
	// Limiter throttles StoreStats per user. Defaults to a token bucket
	// built from Config.Platform.StoreRate.
	Limiter Limiter
	Logger  *log.Logger
	Now     func() time.Time
}

// Service is a single user's platform client.
type Service struct {
	mu sync.Mutex

	store     *storage.Store
	cfg       config.Config
	user      string
	game      stats.GameID
	available bool
	log       *log.Logger
	now       func() time.Time
	started   time.Time

	limiter     Limiter
	stopLimiter func()

	loaded       bool
	fetchPending bool
	committed    map[string]float64 // what the server holds
	values       map[string]float64 // local writes awaiting StoreStats
	committedAch map[string]bool
	achieved     map[string]bool

	overlay bool
	queue   []stats.Completion
	subs    []chan stats.Completion
	closed  bool
}

var _ platform.Platform = (*Service)(nil)

// New creates a platform client for opts.User.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{
		store:     opts.Store,
		cfg:       opts.Config,
		user:      opts.User,
		game:      stats.GameID(opts.Config.Platform.AppID),
		available: opts.Store != nil && !opts.Offline,
		log:       logger.WithPrefix("platform"),
		now:       now,
		started:   now(),
		limiter:   opts.Limiter,
	}
	if s.limiter == nil {
		rate := opts.Config.Platform.StoreRate
		s.limiter, s.stopLimiter = NewTokenBucketLimiter(rate.PerSecond, rate.Burst)
	}
	s.resetValues(true)

	if s.available {
		s.log.Info("platform client initialized", "app", s.cfg.Platform.AppID, "user", s.user)
		s.enqueue(platform.PersonaStateChange{Game: s.game, User: s.user, Name: s.PersonaName()})
	} else {
		s.log.Warn("platform client unavailable", "offline", opts.Offline)
	}
	return s
}

func (s *Service) Available() bool      { return s.available }
func (s *Service) GameID() stats.GameID { return s.game }

// User returns the logged on user.
func (s *Service) User() string { return s.user }

// Subscribe returns a channel that receives every completion delivered by
// later RunCallbacks calls.
func (s *Service) Subscribe() <-chan stats.Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan stats.Completion, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Unsubscribe removes ch from the fan-out and closes it.
func (s *Service) Unsubscribe(ch <-chan stats.Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// RunCallbacks answers pending requests and fans the queued completions out
// to every subscriber. A full subscriber misses the completion.
func (s *Service) RunCallbacks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetchPending {
		s.fetchPending = false
		s.fetchLocked()
	}

	queue := s.queue
	s.queue = nil
	for _, c := range queue {
		for i, ch := range s.subs {
			select {
			case ch <- c:
			default:
				s.log.Warn("subscriber full, dropping completion", "subscriber", i, "completion", fmt.Sprintf("%T", c))
			}
		}
	}
}

// Close stops the limiter and closes every subscription.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.stopLimiter != nil {
		s.stopLimiter()
	}
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	return nil
}

func (s *Service) RequestCurrentStats() bool {
	if !s.available || s.user == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchPending = true
	return true
}

func (s *Service) GetStatInt(name string) (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.statLocked(name, config.StatInt)
	return int32(v), ok
}

func (s *Service) GetStatFloat(name string) (float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.statLocked(name, config.StatFloat)
	return float32(v), ok
}

func (s *Service) SetStatInt(name string, value int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatLocked(name, config.StatInt, float64(value))
}

func (s *Service) SetStatFloat(name string, value float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatLocked(name, config.StatFloat, float64(value))
}

func (s *Service) GetAchievement(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return false, false
	}
	if _, ok := s.cfg.AchievementDef(id); !ok {
		return false, false
	}
	return s.achieved[id], true
}

func (s *Service) SetAchievement(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return false
	}
	if _, ok := s.cfg.AchievementDef(id); !ok {
		return false
	}
	s.achieved[id] = true
	return true
}

func (s *Service) GetAchievementDisplayAttribute(id, attr string) string {
	def, ok := s.cfg.AchievementDef(id)
	if !ok {
		return ""
	}
	switch attr {
	case "name":
		return def.Name
	case "desc":
		return def.Description
	case "hidden":
		if def.Hidden {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}

// StoreStats uploads local changes. It returns false when nothing was sent:
// stats not received yet, or the call was throttled.
func (s *Service) StoreStats() bool {
	if !s.available {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false
	}
	if !s.limiter.Consume(s.user) {
		s.log.Debug("StoreStats throttled", "user", s.user)
		return false
	}

	var rejected []string
	changed := make(map[string]float64)
	for _, def := range s.cfg.Stats {
		old, next := s.committed[def.Name], s.values[def.Name]
		if next == old {
			continue
		}
		if violates(def, old, next) {
			rejected = append(rejected, def.Name)
			s.values[def.Name] = old
			continue
		}
		changed[def.Name] = next
	}

	var unlocked []string
	for _, def := range s.cfg.Achievements {
		if s.achieved[def.ID] && !s.committedAch[def.ID] {
			unlocked = append(unlocked, def.ID)
		}
	}

	now := s.now()
	err := s.store.SaveStats(s.user, s.cfg.Platform.AppID, changed, now)
	if err == nil {
		err = s.store.UnlockAchievements(s.user, s.cfg.Platform.AppID, unlocked, now)
	}
	if err != nil {
		s.log.Error("StoreStats failed", "err", err)
		s.enqueue(stats.StatsStored{Game: s.game, Result: stats.ResultFail})
		return true
	}

	for name, v := range changed {
		s.committed[name] = v
	}
	for _, id := range unlocked {
		s.committedAch[id] = true
	}

	result := stats.ResultOK
	if len(rejected) > 0 {
		result = stats.ResultInvalidParam
		s.log.Warn("stats reverted by validation", "stats", strings.Join(rejected, ","))
	}
	s.enqueue(stats.StatsStored{Game: s.game, Result: result})
	for _, id := range unlocked {
		s.enqueue(stats.AchievementStored{Game: s.game, Name: id})
	}
	return true
}

// ResetAllStats wipes the user's stats and optionally achievements on the
// server and in the local cache.
func (s *Service) ResetAllStats(alsoAchievements bool) bool {
	if !s.available {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ResetUser(s.user, s.cfg.Platform.AppID, alsoAchievements); err != nil {
		s.log.Error("ResetAllStats failed", "err", err)
		return false
	}
	s.resetValues(alsoAchievements)
	s.log.Info("stats reset", "user", s.user, "achievements", alsoAchievements)
	return true
}

func (s *Service) fetchLocked() {
	appID := s.cfg.Platform.AppID
	values, err := s.store.LoadStats(s.user, appID)
	if err != nil {
		s.log.Error("RequestCurrentStats failed", "err", err)
		s.enqueue(stats.StatsReceived{Game: s.game, User: s.user, Result: stats.ResultFail})
		return
	}
	achievements, err := s.store.LoadAchievements(s.user, appID)
	if err != nil {
		s.log.Error("RequestCurrentStats failed", "err", err)
		s.enqueue(stats.StatsReceived{Game: s.game, User: s.user, Result: stats.ResultFail})
		return
	}

	s.resetValues(true)
	for _, def := range s.cfg.Stats {
		if v, ok := values[def.Name]; ok {
			s.committed[def.Name] = v
			s.values[def.Name] = v
		}
	}
	for id, a := range achievements {
		s.committedAch[id] = a.Achieved
		s.achieved[id] = a.Achieved
	}
	s.loaded = true
	s.enqueue(stats.StatsReceived{Game: s.game, User: s.user, Result: stats.ResultOK})
}

func (s *Service) statLocked(name string, typ config.StatType) (float64, bool) {
	if !s.loaded {
		return 0, false
	}
	def, ok := s.cfg.StatDef(name)
	if !ok || def.Type != typ {
		return 0, false
	}
	return s.values[name], true
}

func (s *Service) setStatLocked(name string, typ config.StatType, v float64) bool {
	if !s.loaded {
		return false
	}
	def, ok := s.cfg.StatDef(name)
	if !ok || def.Type != typ {
		return false
	}
	s.values[name] = v
	return true
}

func (s *Service) resetValues(achievements bool) {
	s.committed = make(map[string]float64, len(s.cfg.Stats))
	s.values = make(map[string]float64, len(s.cfg.Stats))
	for _, def := range s.cfg.Stats {
		s.committed[def.Name] = def.Default
		s.values[def.Name] = def.Default
	}
	if achievements || s.achieved == nil {
		s.committedAch = make(map[string]bool, len(s.cfg.Achievements))
		s.achieved = make(map[string]bool, len(s.cfg.Achievements))
	}
}

func (s *Service) enqueue(c stats.Completion) {
	if s.closed {
		return
	}
	s.queue = append(s.queue, c)
}

// violates reports whether moving a stat from old to next breaks its schema.
func violates(def config.StatDef, old, next float64) bool {
	switch {
	case def.Min != nil && next < *def.Min:
		return true
	case def.Max != nil && next > *def.Max:
		return true
	case def.IncrementOnly && next < old:
		return true
	case def.MaxChange > 0 && math.Abs(next-old) > def.MaxChange:
		return true
	case def.Type == config.StatInt && next != math.Trunc(next):
		return true
	}
	return false
}

// Leaderboards lists the configured board names.
func (s *Service) Leaderboards() []string {
	names := make([]string, 0, len(s.cfg.Leaderboards))
	for _, l := range s.cfg.Leaderboards {
		names = append(names, l.Name)
	}
	return names
}
