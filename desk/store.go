package desk

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderdesk-backend/cart"
)

const DefaultIdleTTL = 2 * time.Hour

// Store keeps the open sessions in memory. Nothing is shared between
// sessions; a session disappears when closed or idle for longer than the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	policy   cart.Policy
	idleTTL  time.Duration
	now      func() time.Time
}

func NewStore(policy cart.Policy, idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		policy:   policy,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create opens a new session for the operator.
func (st *Store) Create(userID uuid.UUID, shopID int) *Session {
	s := newSession(userID, shopID, st.policy, st.now())

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

// Get returns the session if it belongs to userID. Someone else's session is
// reported as not found.
func (st *Store) Get(id, userID uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close removes the session and discards its cart.
func (st *Store) Close(id, userID uuid.UUID) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok || s.UserID != userID {
		st.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	st.mu.Unlock()

	s.close()
	return nil
}

// CleanupIdle drops sessions idle for longer than the TTL and returns how
// many were removed.
func (st *Store) CleanupIdle() int {
	cutoff := st.now().Add(-st.idleTTL)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

// RunSweeper calls CleanupIdle every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.CleanupIdle(); n > 0 {
				log.Info("evicted idle desk sessions", zap.Int("count", n))
			}
		}
	}
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
