// Package session tracks client conversations across tool calls.
//
// The server does not trust transports to manage lifecycle for it: a
// session exists exactly as long as this registry says it does. Sessions
// appear on first contact, are touched on every tool call, and disappear
// either when the transport disconnects or when the idle sweeper reclaims
// them. A reclaimed id that shows up again is a brand-new session with
// fresh state.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is one tracked client conversation.
type Session struct {
	ID        string
	CreatedAt time.Time

	// mu serializes tool handling for this session. The middleware holds
	// it for the duration of each call.
	mu sync.Mutex

	lastActive atomic.Int64 // unix nanos
	requests   atomic.Int64
}

func newSession(id string, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now}
	s.lastActive.Store(now.UnixNano())
	return s
}

// Lock acquires the session's handler mutex.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's handler mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch marks the session active now and counts a request.
func (s *Session) Touch() {
	s.lastActive.Store(time.Now().UnixNano())
	s.requests.Add(1)
}

// LastActive returns when the session last handled a request.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Requests returns how many requests the session has handled.
func (s *Session) Requests() int64 {
	return s.requests.Load()
}

// Manager is the session registry.
type Manager struct {
	idleTimeout   time.Duration
	sweepInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	// fallbackID stands in for transports that carry no session id, so
	// all their requests land on one process-wide session.
	fallbackID string

	running bool
	stopCh  chan struct{}
}

// NewManager builds a registry. Sessions idle longer than idleTimeout are
// reclaimed by the sweeper, which runs every sweepInterval once started.
func NewManager(idleTimeout, sweepInterval time.Duration) *Manager {
	return &Manager{
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		sessions:      make(map[string]*Session),
		fallbackID:    "local-" + uuid.NewString(),
		stopCh:        make(chan struct{}),
	}
}

// Track returns the session for id, creating it on first sight, and
// touches it. An empty id maps to the process-wide fallback session.
// The second return reports whether the session was just created.
func (m *Manager) Track(id string) (*Session, bool) {
	if id == "" {
		id = m.fallbackID
	}

	m.mu.RLock()
	s := m.sessions[id]
	m.mu.RUnlock()
	if s != nil {
		s.Touch()
		return s, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.sessions[id]; s != nil {
		s.Touch()
		return s, false
	}
	s = newSession(id, time.Now())
	m.sessions[id] = s
	return s, true
}

// Get returns the session for id without creating or touching it.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		id = m.fallbackID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close removes a session immediately (explicit transport disconnect).
// It reports whether the id was tracked.
func (m *Manager) Close(id string) bool {
	if id == "" {
		id = m.fallbackID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns how many sessions are tracked.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
