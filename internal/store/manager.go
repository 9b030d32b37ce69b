package store

import (
	"context"
	"sync"

	"learningleague/internal/engagement"
)

// Manager maps active sessions to their stores. One session holds one
// live user; a second login from the same user reuses the session
// (multi-device consistency is out of scope, last-write-wins).
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Store

	clock     engagement.Clock
	catalog   Catalog
	persister Persister
	threshold int
	onCreate  func(*Store)
}

func NewManager(clock engagement.Clock, catalog Catalog, persister Persister, threshold int) *Manager {
	return &Manager{
		sessions:  make(map[int64]*Store),
		clock:     clock,
		catalog:   catalog,
		persister: persister,
		threshold: threshold,
	}
}

// OnSessionCreate installs a hook run once for every freshly created
// session store, before any command is dispatched on it. Used to wire
// observers such as websocket pushers.
func (m *Manager) OnSessionCreate(fn func(*Store)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCreate = fn
}

// StartSession loads the user and opens a session store for it. The
// load is the only blocking I/O on the path; once the store exists,
// commands run against memory.
func (m *Manager) StartSession(ctx context.Context, userID int64) (*Store, error) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	u, err := m.persister.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	s := New(u, m.clock, m.catalog, m.persister, m.threshold)
	if m.onCreate != nil {
		m.onCreate(s)
	}
	m.sessions[userID] = s
	return s, nil
}

// Get returns the session store for a logged-in user.
func (m *Manager) Get(userID int64) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// EndSession drops the session. The persisted user is untouched; only
// in-memory session state goes away.
func (m *Manager) EndSession(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
