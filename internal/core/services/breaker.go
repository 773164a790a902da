package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/formwright/internal/logger"
)

// DefaultProbeInterval is the minimum gap between re-probes of a failing remote.
const DefaultProbeInterval = 30 * time.Second

// breaker tracks remote health. Closed, every call goes remote. Open, calls
// go local except one probe per interval; a successful probe closes it.
type breaker struct {
	mu       sync.Mutex
	interval time.Duration
	open     bool
	probes   *rate.Limiter
	openedAt time.Time
	lastErr  error
	trips    int
}

func newBreaker(interval time.Duration) *breaker {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &breaker{interval: interval}
}

// allow reports whether a call made at now may go to the remote backend.
func (b *breaker) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	if b.probes.AllowN(now, 1) {
		logger.Debug("remote breaker: probing after %s", now.Sub(b.openedAt).Round(time.Millisecond))
		return true
	}
	return false
}

// success records a remote answer.
func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		logger.Info("remote backend recovered, leaving degraded mode")
	}
	b.open = false
	b.lastErr = nil
}

// failure records a remote outage. The first failure opens the breaker and
// spends the probe token, so the next probe waits a full interval.
func (b *breaker) failure(now time.Time, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = err
	if b.open {
		return
	}
	b.open = true
	b.openedAt = now
	b.trips++
	b.probes = rate.NewLimiter(rate.Every(b.interval), 1)
	b.probes.AllowN(now, 1)
	logger.Warn("remote backend unavailable, serving from local storage: %v", err)
}

func (b *breaker) snapshot() (open bool, since time.Time, lastErr error, trips int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open, b.openedAt, b.lastErr, b.trips
}
