package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(rules map[Class]Rule, start time.Time) (*Limiter, *time.Time) {
	l := New(rules)
	now := start
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_QuotaExceeded(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	l, _ := newTestLimiter(map[Class]Rule{ClassAuth: {Window: 15 * time.Minute, Quota: 5}}, start)

	for i := 0; i < 5; i++ {
		res := l.Allow(ClassAuth, "ip:1.2.3.4")
		require.True(t, res.Allowed, "call %d should be allowed", i+1)
	}
	res := l.Allow(ClassAuth, "ip:1.2.3.4")
	require.False(t, res.Allowed)
	require.Equal(t, start.Add(15*time.Minute), res.ResetAt)

	// rejection does not increment: the counter stays at quota
	res = l.Allow(ClassAuth, "ip:1.2.3.4")
	require.False(t, res.Allowed)
}

func TestLimiter_WindowReset(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	l, now := newTestLimiter(map[Class]Rule{ClassAuth: {Window: 15 * time.Minute, Quota: 5}}, start)

	for i := 0; i < 5; i++ {
		require.True(t, l.Allow(ClassAuth, "ip:1.2.3.4").Allowed)
	}
	require.False(t, l.Allow(ClassAuth, "ip:1.2.3.4").Allowed)

	*now = start.Add(15*time.Minute + time.Second)
	res := l.Allow(ClassAuth, "ip:1.2.3.4")
	require.True(t, res.Allowed)
	require.Equal(t, (*now).Add(15*time.Minute), res.ResetAt)
}

func TestLimiter_KeysAndClassesAreIndependent(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	l, _ := newTestLimiter(map[Class]Rule{
		ClassAuth: {Window: time.Minute, Quota: 1},
		ClassAPI:  {Window: time.Minute, Quota: 1},
	}, start)

	require.True(t, l.Allow(ClassAuth, "ip:1.2.3.4").Allowed)
	require.False(t, l.Allow(ClassAuth, "ip:1.2.3.4").Allowed)

	// other keys and other classes are unaffected
	require.True(t, l.Allow(ClassAuth, "ip:5.6.7.8").Allowed)
	require.True(t, l.Allow(ClassAPI, "ip:1.2.3.4").Allowed)
}

func TestLimiter_SweepDropsExpiredEntries(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	l, now := newTestLimiter(map[Class]Rule{ClassAPI: {Window: time.Minute, Quota: 10}}, start)

	l.Allow(ClassAPI, "sub:u1")
	l.Allow(ClassAPI, "sub:u2")
	require.Len(t, l.entries, 2)

	// past both window and sweep cadence: next call garbage-collects
	*now = start.Add(sweepInterval + time.Minute)
	l.Allow(ClassAPI, "sub:u3")
	require.Len(t, l.entries, 1)
}

func TestLimiter_ConfigOverridesDefaults(t *testing.T) {
	l := New(map[Class]Rule{ClassRoom: {Window: 2 * time.Minute, Quota: 3}})
	require.Equal(t, Rule{Window: 2 * time.Minute, Quota: 3}, l.Rule(ClassRoom))
	// untouched classes keep their defaults
	require.Equal(t, defaultRules[ClassAuth], l.Rule(ClassAuth))
	// unknown classes fall back to the api rule
	require.Equal(t, defaultRules[ClassAPI], l.Rule(Class("bogus")))
}
