package http

import (
	"errors"
	"time"

	"financebot/internal/cache"
	"financebot/internal/intent"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRegistry holds open conversations. A session expires after ttl
// without use and is evicted first when capacity runs out.
type SessionRegistry struct {
	sessions *cache.LRUCache[*intent.Session]
}

func NewSessionRegistry(capacity int, ttl time.Duration, opts ...cache.Option) *SessionRegistry {
	return &SessionRegistry{sessions: cache.NewLRUCache[*intent.Session](capacity, ttl, opts...)}
}

func (r *SessionRegistry) Create() *intent.Session {
	s := intent.NewSession()
	r.sessions.Set(s.ID, s)
	return s
}

// Get returns the session and extends its lifetime.
func (r *SessionRegistry) Get(id string) (*intent.Session, error) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	r.sessions.Touch(id)
	return s, nil
}

func (r *SessionRegistry) End(id string) bool {
	return r.sessions.Delete(id)
}

func (r *SessionRegistry) Len() int {
	return r.sessions.Size()
}

func (r *SessionRegistry) CleanExpired() int {
	return r.sessions.CleanExpired()
}
