package local

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// Limiter decides whether a keyed request may go ahead.
type Limiter interface {
	Consume(key string) bool
}

// tokenBucketLimiter keeps one token bucket per key. Idle buckets expire.
type tokenBucketLimiter struct {
	limiters        *ttlcache.Cache[string, *rate.Limiter]
	refillPerSecond float64
	burstSize       int
}

func (l *tokenBucketLimiter) Consume(key string) bool {
	limiter, _ := l.limiters.GetOrSet(key, rate.NewLimiter(rate.Limit(l.refillPerSecond), l.burstSize))
	return limiter.Value().Allow()
}

// NewTokenBucketLimiter returns a per-key limiter and the func that stops
// its expiry loop.
func NewTokenBucketLimiter(refillPerSecond float64, burstSize int) (Limiter, func()) {
	cache := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](30 * time.Minute),
	)
	go cache.Start()

	return &tokenBucketLimiter{
		limiters:        cache,
		refillPerSecond: refillPerSecond,
		burstSize:       burstSize,
	}, cache.Stop
}

type unlimited struct{}

func (unlimited) Consume(string) bool { return true }

// Unlimited never throttles.
var Unlimited Limiter = unlimited{}
