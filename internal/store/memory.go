package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Used in tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		now := m.now().UTC()
		s = &Session{ID: id, Status: StatusInitializing, CreatedAt: now, UpdatedAt: now}
		m.sessions[id] = s
	}
	return clone(s), nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, p Patch) error {
	if id == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id, Status: StatusInitializing, CreatedAt: now}
		m.sessions[id] = s
	}
	p.apply(s)
	s.UpdatedAt = now
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Session, error) {
	m.mu.RLock()
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *clone(s))
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func clone(s *Session) *Session {
	c := *s
	if s.LastConnectedAt != nil {
		t := *s.LastConnectedAt
		c.LastConnectedAt = &t
	}
	return &c
}
