// Package cooldown rate-limits trigger auto-replies per user.
//
// Each user gets a token bucket holding a single token that refills once per
// window, so a user may fire one trigger per window. A bucket that has
// refilled is indistinguishable from no bucket at all and is dropped by Sweep.
package cooldown

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultWindow is the minimum time between two triggers from the same user.
const DefaultWindow = 10 * time.Second

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type Limiter struct {
	mu        sync.Mutex
	window    time.Duration
	buckets   map[string]*rate.Limiter
	lastSweep time.Time
}

func New(window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		window:  window,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Window returns the configured cooldown length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Allow reports whether user may trigger at now. An allowed call records now
// as the user's last use; a denied call leaves the record untouched.
func (l *Limiter) Allow(user string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweepLocked(now)
	}

	b, ok := l.buckets[user]
	if !ok {
		b = rate.NewLimiter(rate.Every(l.window), 1)
		l.buckets[user] = b
	}
	if b.AllowN(now, 1) {
		return Decision{Allowed: true}
	}

	missing := 1 - b.TokensAt(now)
	retry := time.Duration(missing * float64(l.window))
	if retry <= 0 {
		retry = time.Millisecond
	}
	return Decision{RetryAfter: retry}
}

// Sweep drops every user whose cooldown has elapsed and returns how many
// entries were removed.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(now)
}

func (l *Limiter) sweepLocked(now time.Time) int {
	removed := 0
	for user, b := range l.buckets {
		if b.TokensAt(now) >= 1 {
			delete(l.buckets, user)
			removed++
		}
	}
	l.lastSweep = now
	return removed
}

// Len returns the number of users currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// FormatWait renders d in seconds with one decimal place, e.g. "7.5".
func FormatWait(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64)
}
