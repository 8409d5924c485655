// Package session implements opaque server-side sessions: a random
// identifier handed to the client maps to a user ID on the server,
// so logout is a real destroy rather than a token the client keeps.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 7 * 24 * time.Hour

// Store persists the session-ID to user-ID association.
type Store interface {
	// Create establishes a session for the user and returns its opaque ID.
	Create(ctx context.Context, userID uint) (string, error)

	// Get resolves a session ID to a user ID. ok is false for
	// unknown, destroyed, or expired sessions.
	Get(ctx context.Context, sessionID string) (userID uint, ok bool, err error)

	// Destroy removes the session unconditionally.
	Destroy(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Redis is unavailable
// and throughout the test suite.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry
	now func() time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl: ttl,
		m:   make(map[string]memoryEntry),
		now: time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = memoryEntry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.m[sessionID]
	if !ok {
		return 0, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.m, sessionID)
		return 0, false, nil
	}
	return entry.userID, true, nil
}

func (s *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sessionID)
	return nil
}
