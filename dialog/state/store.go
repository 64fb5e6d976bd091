package state

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrSessionNotFound = errors.New("session attributes not found")
	ErrInvalidUserID   = errors.New("user id is empty")
)

// SessionStore persists a user's session attribute blob between turns for
// transports whose hosting dialog engine does not carry the blob itself.
type SessionStore interface {
	Load(ctx context.Context, userID string) (map[string]string, error)
	Save(ctx context.Context, userID string, attrs map[string]string) error
	Delete(ctx context.Context, userID string) error
}

// MemoryStore is a process-local SessionStore for tests and single-node
// deployments.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, userID string) (map[string]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs, ok := m.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, attrs map[string]string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	m.sessions[userID] = copied
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}
