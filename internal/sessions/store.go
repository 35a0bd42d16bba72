// Package sessions keeps quiz view-state between web requests.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/mind-engage/docquiz/internal/quiz"
)

type Store interface {
	Load(ctx context.Context, id string) (quiz.Session, bool, error)
	Save(ctx context.Context, s quiz.Session) error
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	s       quiz.Session
	expires time.Time
}

// NewMemory keeps sessions in process. Entries expire TTL after their last
// save, like the Redis store.
func NewMemory() Store { return NewMemoryWithClock(time.Now) }

func NewMemoryWithClock(now func() time.Time) Store {
	return &memoryStore{now: now, sessions: map[string]memoryEntry{}}
}

func (m *memoryStore) Load(_ context.Context, id string) (quiz.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || !m.now().Before(e.expires) {
		return quiz.Session{}, false, nil
	}
	return e.s, true, nil
}

// Save also drops every expired entry.
func (m *memoryStore) Save(_ context.Context, s quiz.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.sessions {
		if !now.Before(e.expires) {
			delete(m.sessions, id)
		}
	}
	m.sessions[s.ID] = memoryEntry{s: s, expires: now.Add(TTL)}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len is the number of stored entries, expired or not.
func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
