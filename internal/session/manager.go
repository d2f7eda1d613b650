package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/credstore"
	"github.com/edubridge/edubridge-web/internal/model"
)

// TransitionHook observes transitions of any session managed by a Manager.
// The event publisher hangs off this hook.
type TransitionHook func(sessionID string, st State, user *model.UserSummary)

// defaultIdleTTL bounds how long an untouched session's in-memory state is
// kept before the sweep evicts it.  Eviction loses nothing durable: the
// credentials live in the store and the next request re-materializes the
// session and re-validates.
const defaultIdleTTL = 30 * time.Minute

// sweepInterval spaces out full scans of the session map.
const sweepInterval = time.Minute

type sessionEntry struct {
	sess     *Session
	lastSeen time.Time
}

// Manager owns the live sessions of this process.  It is injected at the
// application root and handed to the guard middleware; there is no package
// global.  A session not yet in memory (new visitor, or a process restart
// with the cookie still in the browser) is materialized lazily; its
// credentials, if any, are still in the store and Resume re-validates them.
// The map is bounded: signed-out sessions are dropped immediately and idle
// ones are swept after idleTTL, so unseen cookie values cannot accumulate
// state forever.
type Manager struct {
	newStore  func(sessionID string) credstore.Store
	newClient func(creds credstore.Store) *apiclient.Client
	idleTTL   time.Duration

	mu        sync.Mutex
	entries   map[string]*sessionEntry
	hooks     []TransitionHook
	lastSweep time.Time
}

// NewManager builds a Manager from the two per-session factories: one for
// the credential store namespace, one for the backend client bound to it.
func NewManager(newStore func(string) credstore.Store, newClient func(credstore.Store) *apiclient.Client) *Manager {
	return &Manager{
		newStore:  newStore,
		newClient: newClient,
		idleTTL:   defaultIdleTTL,
		entries:   map[string]*sessionEntry{},
		lastSweep: time.Now(),
	}
}

// SetIdleTTL overrides how long idle in-memory session state survives.
// Zero or negative disables the sweep.
func (m *Manager) SetIdleTTL(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTTL = d
}

// OnTransition registers a hook applied to every current and future session.
func (m *Manager) OnTransition(h TransitionHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, h)
	for id, e := range m.entries {
		e.sess.Subscribe(hookListener(id, h))
	}
}

// Create mints a new browser session with a fresh identifier.
func (m *Manager) Create() *Session {
	return m.Get(uuid.NewString())
}

// Get returns the session for the given identifier, materializing it on
// first sight.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.sweepLocked(now)
	if e, ok := m.entries[id]; ok {
		e.lastSeen = now
		return e.sess
	}
	creds := m.newStore(id)
	s := newSession(id, creds, m.newClient(creds))
	// A signed-out session has nothing worth keeping in memory; the next
	// request with this cookie starts over as a guest.
	s.Subscribe(func(st State, user *model.UserSummary) {
		if st == StateUnauthenticated && user != nil {
			m.Drop(id)
		}
	})
	for _, h := range m.hooks {
		s.Subscribe(hookListener(id, h))
	}
	m.entries[id] = &sessionEntry{sess: s, lastSeen: now}
	return s
}

// Drop forgets a session's in-memory state.  Credentials in the store are
// untouched; use Session.Logout to wipe those.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// sweepLocked evicts entries idle longer than idleTTL.  Runs at most once
// per sweepInterval; callers hold m.mu.
func (m *Manager) sweepLocked(now time.Time) {
	if m.idleTTL <= 0 || now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.entries, id)
		}
	}
}

func hookListener(id string, h TransitionHook) Listener {
	return func(st State, user *model.UserSummary) { h(id, st, user) }
}
