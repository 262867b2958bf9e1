package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionStore holds live sessions. Implementations hand out copies, so a
// caller must Save to make a change visible.
type SessionStore interface {
	// Create adds a new session.
	Create(ctx context.Context, s *Session) error
	// Get returns a copy of the session, or ErrSessionNotFound if it is unknown or expired.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	// Save replaces the stored session. It fails with ErrSessionNotFound if the session has ended.
	Save(ctx context.Context, s *Session) error
	// Delete ends the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStore keeps sessions in process memory and forgets them after an idle TTL.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store whose sessions end after ttl without activity.
// A zero ttl keeps sessions until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create implements SessionStore.
func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := s.clone()
	c.LastSeen = m.now()
	m.sessions[s.ID] = c
	return nil
}

// Get implements SessionStore.
func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if m.expired(s, now) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	s.LastSeen = now
	return s.clone(), nil
}

// Save implements SessionStore.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	c := s.clone()
	c.LastSeen = m.now()
	m.sessions[s.ID] = c
	return nil
}

// Delete implements SessionStore.
func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Len is the number of stored sessions, expired ones included until the next sweep.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger := zerolog.Ctx(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Debug().Int("removed", n).Int("live", m.Len()).Msg("swept expired sessions")
			}
		}
	}
}

func (m *MemoryStore) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.LastSeen) > m.ttl
}

// sessionLocks serializes interactions per session. Entries are dropped
// once nobody holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sessionLock)}
}

// lock blocks until the caller owns id and returns the release func.
func (l *sessionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
