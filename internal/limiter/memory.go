package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Memory is an in-process limiter for the sqlite and memory backends. Each
// (username, ip) pair gets a token bucket of MaxFails failures refilled over
// Window; an empty bucket blocks the pair for BlockFor. Pairs that are
// neither blocked nor carrying recent failures are swept at most once per
// Window.
type Memory struct {
	mu        sync.Mutex
	cfg       Config
	now       func() time.Time
	pairs     map[string]*attempts
	lastSweep time.Time
}

type attempts struct {
	fails        *rate.Limiter
	blockedUntil time.Time
}

func (a *attempts) idle(now time.Time) bool {
	return !now.Before(a.blockedUntil) && a.fails.TokensAt(now) >= float64(a.fails.Burst())
}

func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.cfg.Window {
		return
	}
	m.lastSweep = now
	for k, a := range m.pairs {
		if a.idle(now) {
			delete(m.pairs, k)
		}
	}
}

// NewMemory constructs an in-process limiter.
func NewMemory(cfg Config) *Memory {
	return &Memory{cfg: cfg, now: time.Now, pairs: make(map[string]*attempts)}
}

func pairKey(username string, ipHash []byte) string {
	return username + "\x00" + string(ipHash)
}

// Allow reports whether the pair is currently unblocked.
func (m *Memory) Allow(_ context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.pairs[pairKey(username, ipHash)]
	if !ok {
		return true, 0, nil
	}
	if wait := a.blockedUntil.Sub(m.now()); wait > 0 {
		return false, wait, nil
	}
	return true, 0, nil
}

// Success forgets the pair.
func (m *Memory) Success(_ context.Context, username string, ipHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pairs, pairKey(username, ipHash))
	return nil
}

// Failure spends one token; when none is left the pair is blocked.
func (m *Memory) Failure(_ context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	key := pairKey(username, ipHash)
	a, ok := m.pairs[key]
	if !ok {
		every := rate.Every(m.cfg.Window / time.Duration(max(m.cfg.MaxFails, 1)))
		a = &attempts{fails: rate.NewLimiter(every, max(m.cfg.MaxFails-1, 0))}
		m.pairs[key] = a
	}
	if a.fails.AllowN(now, 1) {
		return false, 0, nil
	}
	a.blockedUntil = now.Add(m.cfg.BlockFor)
	return true, m.cfg.BlockFor, nil
}
