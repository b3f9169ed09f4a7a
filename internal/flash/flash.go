// Package flash keeps alerts for a visitor until the next page they view.
package flash

import (
	"context"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/ui"
)

// DefaultTTL is how long an unread alert survives.
const DefaultTTL = 5 * time.Minute

// Store queues alerts per session. Pop returns every pending message in the
// order it was pushed and forgets them.
type Store interface {
	Push(ctx context.Context, session string, msg ui.Message) error
	Pop(ctx context.Context, session string) ([]ui.Message, error)
}

type entry struct {
	messages []ui.Message
	expires  time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Push(_ context.Context, session string, msg ui.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)

	e, ok := s.entries[session]
	if !ok {
		e = &entry{}
		s.entries[session] = e
	}
	e.messages = append(e.messages, msg)
	e.expires = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, session string) ([]ui.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[session]
	if !ok {
		return nil, nil
	}
	delete(s.entries, session)
	if s.now().After(e.expires) {
		return nil, nil
	}
	return e.messages, nil
}

// Len is the number of sessions with pending alerts.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) prune(now time.Time) {
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
}
