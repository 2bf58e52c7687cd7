package ratelimit

import (
	"sync"
	"time"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/config"
)

// Class names a category of calls with its own window and quota.
type Class string

const (
	ClassAuth  Class = "auth"
	ClassAPI   Class = "api"
	ClassToken Class = "token"
	ClassRoom  Class = "room"
)

// Rule is the window/quota pair enforced for one class.
type Rule struct {
	Window time.Duration
	Quota  int
}

// Result reports a single rate limit decision. ResetAt is the instant the
// current window ends, so rejected callers can compute a precise retry delay.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// how often the expired-entry sweep may run
const sweepInterval = 5 * time.Minute

// Limiter enforces fixed, non-sliding windows per derived key. State is held
// per process instance: it bounds abuse per instance, not across a fleet.
// Bursts straddling a window boundary are accepted by design.
type Limiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	rules     map[Class]Rule
	lastSweep time.Time
	now       func() time.Time
}

// defaultRules backs classes missing from configuration.
var defaultRules = map[Class]Rule{
	ClassAuth:  {Window: 15 * time.Minute, Quota: 5},
	ClassAPI:   {Window: time.Minute, Quota: 100},
	ClassToken: {Window: time.Hour, Quota: 30},
	ClassRoom:  {Window: time.Minute, Quota: 20},
}

func New(rules map[Class]Rule) *Limiter {
	merged := make(map[Class]Rule, len(defaultRules))
	for c, r := range defaultRules {
		merged[c] = r
	}
	for c, r := range rules {
		if r.Quota > 0 && r.Window > 0 {
			merged[c] = r
		}
	}
	return &Limiter{
		entries: make(map[string]*entry),
		rules:   merged,
		now:     time.Now,
	}
}

// NewFromConfig builds a limiter from the table-driven class configuration.
func NewFromConfig(cfg config.RateLimitConfig) *Limiter {
	rules := make(map[Class]Rule, len(cfg.Classes))
	for name, c := range cfg.Classes {
		rules[Class(name)] = Rule{Window: c.Window, Quota: c.Quota}
	}
	return New(rules)
}

// Rule returns the effective rule for a class.
func (l *Limiter) Rule(class Class) Rule {
	if r, ok := l.rules[class]; ok {
		return r
	}
	return defaultRules[ClassAPI]
}

// Allow records one call for the given class and derived key. The key is
// namespaced by class so the same caller owns an independent counter per
// class. No I/O happens inside the critical section.
func (l *Limiter) Allow(class Class, key string) Result {
	rule := l.Rule(class)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now)

	k := string(class) + ":" + key
	e, ok := l.entries[k]
	if !ok {
		e = &entry{count: 0, resetAt: now.Add(rule.Window)}
		l.entries[k] = e
	}
	if now.After(e.resetAt) {
		e.count = 0
		e.resetAt = now.Add(rule.Window)
	}
	if e.count >= rule.Quota {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}
	e.count++
	return Result{Allowed: true, Remaining: rule.Quota - e.count, ResetAt: e.resetAt}
}

// maybeSweep drops expired entries on a throttled cadence so memory stays
// bounded without a dedicated sweep goroutine. Caller holds l.mu.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for k, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, k)
		}
	}
}
