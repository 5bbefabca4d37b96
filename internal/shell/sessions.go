package shell

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions keeps one Shell per browser session in memory and drops sessions
// idle for longer than the TTL.
type Sessions struct {
	factory func() *Shell
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*sessionEntry
}

type sessionEntry struct {
	shell    *Shell
	lastSeen time.Time
}

// SessionsOption configures Sessions.
type SessionsOption func(*Sessions)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessions creates a registry that builds shells with factory. A zero
// ttl disables eviction.
func NewSessions(factory func() *Shell, ttl time.Duration, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the shell for id, creating a session with a fresh id when id
// is empty, unknown, or expired. The returned id is the one to hand back to
// the browser.
func (s *Sessions) Get(id string) (*Shell, string) {
	id = strings.TrimSpace(id)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[id]; ok && id != "" {
		if !s.expired(entry, now) {
			entry.lastSeen = now
			return entry.shell, id
		}
		delete(s.items, id)
	}

	id = uuid.NewString()
	entry := &sessionEntry{shell: s.factory(), lastSeen: now}
	s.items[id] = entry
	return entry.shell, id
}

// Sweep removes idle sessions and reports how many were dropped.
func (s *Sessions) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.items {
		if s.expired(entry, now) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}
