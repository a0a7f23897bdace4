package handlers

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const throttleIdle = 10 * time.Minute

// Throttle limits how fast each user can issue commands.
type Throttle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*userLimiter
	now      func() time.Time
}

type userLimiter struct {
	*rate.Limiter
	lastSeen time.Time
	warned   bool
}

func NewThrottle(perSecond float64, burst int) *Throttle {
	return &Throttle{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*userLimiter),
		now:      time.Now,
	}
}

// Check reports whether userID may run a command now. warn is true only for
// the first rejection after an allowed command.
func (t *Throttle) Check(userID string) (ok, warn bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	l, ok := t.limiters[userID]
	if !ok {
		t.sweep(now)
		l = &userLimiter{Limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[userID] = l
	}
	l.lastSeen = now
	if l.AllowN(now, 1) {
		l.warned = false
		return true, false
	}
	warn = !l.warned
	l.warned = true
	return false, warn
}

// sweep forgets users that have been quiet long enough to have a full bucket
// again.
func (t *Throttle) sweep(now time.Time) {
	for id, l := range t.limiters {
		if now.Sub(l.lastSeen) > throttleIdle {
			delete(t.limiters, id)
		}
	}
}
