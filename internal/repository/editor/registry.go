// Package editor keeps the wizard sessions that are currently open, keyed by
// a random session id.
package editor

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/blog-wizard/internal/cache"
	"github.com/debemdeboas/blog-wizard/internal/wizard"
)

var (
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrTooManySessions = errors.New("too many open wizard sessions")
)

type SessionID string

// Session pairs a form with the lock that serializes requests against it.
type Session struct {
	ID SessionID

	mu       sync.Mutex
	form     *wizard.Form
	lastUsed atomic.Int64
}

// Do runs fn with exclusive access to the session's form.
func (s *Session) Do(fn func(*wizard.Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.form)
}

func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

type Registry struct {
	sessions    *cache.Cache[SessionID, *Session]
	ttl         time.Duration
	maxSessions int

	now func() time.Time
}

// NewRegistry keeps at most maxSessions sessions and discards those idle for
// longer than ttl. A zero value for either disables that limit.
func NewRegistry(ttl time.Duration, maxSessions int) *Registry {
	return &Registry{
		sessions:    cache.NewCache[SessionID, *Session](),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Open registers form under a fresh session id. When the registry is full,
// expired sessions are swept once before giving up with ErrTooManySessions.
func (r *Registry) Open(form *wizard.Form) (*Session, error) {
	s := &Session{
		ID:   SessionID(uuid.New().String()),
		form: form,
	}
	s.touch(r.now())

	if r.maxSessions <= 0 {
		r.sessions.Set(s.ID, s)
		return s, nil
	}

	if r.sessions.SetIfBelow(s.ID, s, r.maxSessions) {
		return s, nil
	}
	r.Sweep()
	if !r.sessions.SetIfBelow(s.ID, s, r.maxSessions) {
		return nil, ErrTooManySessions
	}
	return s, nil
}

// Get returns a live session and marks it as used. Expired sessions are
// removed and reported as missing.
func (r *Registry) Get(id SessionID) (*Session, error) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := r.now()
	if r.expired(s, now) {
		r.sessions.Delete(id)
		return nil, ErrSessionNotFound
	}

	s.touch(now)
	return s, nil
}

func (r *Registry) Close(id SessionID) bool {
	return r.sessions.Delete(id)
}

// Sweep drops idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	return r.sessions.DeleteFunc(func(_ SessionID, s *Session) bool {
		return r.expired(s, now)
	})
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.LastUsed()) > r.ttl
}
