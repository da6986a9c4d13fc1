package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default backend for single-process deployments.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]Message
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string][]Message{},
		now:      time.Now,
	}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, msg Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	return nil
}

func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.sessions[sessionID]
	out := make([]Message, len(stored))
	copy(out, stored)
	return out, nil
}
