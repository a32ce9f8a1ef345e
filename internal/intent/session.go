package intent

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is owned by the caller and lives for one conversation. It remembers
// the last listing so "item 2" can be mapped back to a transaction id.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	listing []int64
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
}

// Remember replaces the previous listing. ids[0] is display index 1.
func (s *Session) Remember(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listing = append(s.listing[:0], ids...)
}

// Resolve maps a 1-based display index from the last listing to an id.
func (s *Session) Resolve(displayIndex int) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if displayIndex < 1 || displayIndex > len(s.listing) {
		return 0, false
	}
	return s.listing[displayIndex-1], true
}

// Forget drops the listing, e.g. after a bulk delete made the indexes stale.
func (s *Session) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listing = nil
}
