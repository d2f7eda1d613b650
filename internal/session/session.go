// Package session holds the per-browser-session authentication state: who is
// logged in, whether startup validation has completed, and the four
// operations that may change it (resume, login, register, logout).  It is
// the single source of truth consumed by the route guard and the page
// handlers; nothing else mutates the credential store's token/user keys.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/credstore"
	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/service"
)

// State enumerates the session lifecycle.  A session starts Unknown and
// moves exactly once to Authenticated or Unauthenticated during Resume;
// afterwards login/register/logout move it between the two resolved states.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Listener observes state transitions.  The user argument is the one the
// transition concerns: the newly authenticated user, or on sign-out the user
// who held the session (nil when a guest session resolves to
// unauthenticated).  Listeners run synchronously after the transition is
// committed and must not call back into the session.
type Listener func(st State, user *model.UserSummary)

// Session is the authentication state of one browser session.
type Session struct {
	id    string
	creds credstore.Store
	api   *apiclient.Client
	auth  *service.AuthService

	mu        sync.Mutex
	state     State
	user      *model.UserSummary
	resumed   bool
	resuming  singleflight.Group
	listeners []Listener
}

func newSession(id string, creds credstore.Store, api *apiclient.Client) *Session {
	return &Session{
		id:    id,
		creds: creds,
		api:   api,
		auth:  service.NewAuthService(api),
		state: StateUnknown,
	}
}

// ID returns the browser-session identifier (the cookie value).
func (s *Session) ID() string { return s.id }

// API exposes the session-scoped backend client so handlers can build
// data-access services bound to this session's credentials.
func (s *Session) API() *apiclient.Client { return s.api }

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether startup validation has not completed yet.
func (s *Session) Loading() bool { return s.State() == StateUnknown }

// IsAuthenticated is derived state: a non-nil user.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *model.UserSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Subscribe registers a transition listener.
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Resume performs the one-time startup transition.  With no cached token the
// session is immediately Unauthenticated.  With a token, the backend's
// profile endpoint is the authority: on success the session is Authenticated
// with the returned user, on any validation failure the stale credentials
// are purged and the session is Unauthenticated.  Subsequent calls are
// no-ops, so the guard can invoke it on every request; concurrent first
// requests collapse into a single validation via the singleflight group.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	done := s.resumed
	s.mu.Unlock()
	if done {
		return nil
	}
	_, err, _ := s.resuming.Do("resume", func() (any, error) {
		return nil, s.resume(ctx)
	})
	return err
}

func (s *Session) resume(ctx context.Context) error {
	s.mu.Lock()
	if s.resumed {
		s.mu.Unlock()
		return nil
	}

	_, ok, err := s.creds.Get(ctx, credstore.KeyAccessToken)
	if err != nil {
		// Store unavailable: leave the session Unknown so the next request
		// retries validation instead of silently logging the user out.
		s.mu.Unlock()
		return err
	}
	if !ok {
		s.resumed = true
		listeners := s.commit(StateUnauthenticated, nil)
		s.mu.Unlock()
		notify(listeners, StateUnauthenticated, nil)
		return nil
	}
	s.mu.Unlock()

	// Re-validate against the backend outside the lock; the cached user blob
	// is a placeholder, not an identity.  The client handles expiry refresh
	// underneath this call.
	user, err := s.auth.Profile(ctx)

	s.mu.Lock()
	if s.resumed {
		// Another request finished validation while this one was in flight.
		s.mu.Unlock()
		return nil
	}
	s.resumed = true
	if err != nil {
		if cerr := s.creds.Clear(ctx); cerr != nil {
			log.Printf("session %s: purging stale credentials failed: %v", s.id, cerr)
		}
		listeners := s.commit(StateUnauthenticated, nil)
		s.mu.Unlock()
		notify(listeners, StateUnauthenticated, nil)
		return nil
	}
	if b, merr := json.Marshal(user); merr == nil {
		if serr := s.creds.Set(ctx, credstore.KeyUser, string(b)); serr != nil {
			log.Printf("session %s: caching user record failed: %v", s.id, serr)
		}
	}
	listeners := s.commit(StateAuthenticated, &user)
	s.mu.Unlock()
	notify(listeners, StateAuthenticated, &user)
	return nil
}

// Login submits credentials and, on success, persists the token pair and
// user record and transitions to Authenticated.  On failure the session is
// untouched and the normalized backend message is returned.
func (s *Session) Login(ctx context.Context, email, password string) (*model.UserSummary, error) {
	payload, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, friendlyLoginError(err)
	}
	return s.establish(ctx, payload)
}

// Register submits the registration form; the success path is identical to
// Login.
func (s *Session) Register(ctx context.Context, in service.RegisterInput) (*model.UserSummary, error) {
	payload, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, payload)
}

// Logout clears every stored credential and transitions unconditionally to
// Unauthenticated.  Calling it on an already logged-out session is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.creds.Clear(ctx)
	prev := s.user
	s.resumed = true
	listeners := s.commit(StateUnauthenticated, nil)
	s.mu.Unlock()
	if prev != nil {
		notify(listeners, StateUnauthenticated, prev)
	}
	return err
}

// establish persists a successful auth payload and commits the transition.
// Persisting happens before the state flips so no reader ever observes an
// Authenticated session with missing credentials.
func (s *Session) establish(ctx context.Context, payload apiclient.AuthPayload) (*model.UserSummary, error) {
	user := s.resolveUser(payload)

	s.mu.Lock()
	if err := s.creds.Set(ctx, credstore.KeyAccessToken, payload.AccessToken); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if payload.RefreshToken != "" {
		if err := s.creds.Set(ctx, credstore.KeyRefreshToken, payload.RefreshToken); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	if b, err := json.Marshal(user); err == nil {
		if serr := s.creds.Set(ctx, credstore.KeyUser, string(b)); serr != nil {
			s.mu.Unlock()
			return nil, serr
		}
	}
	s.resumed = true
	listeners := s.commit(StateAuthenticated, &user)
	s.mu.Unlock()

	notify(listeners, StateAuthenticated, &user)
	u := user
	return &u, nil
}

// resolveUser picks the user record from the auth payload, falling back to
// the unverified token claims when the backend omitted the user object.
func (s *Session) resolveUser(payload apiclient.AuthPayload) model.UserSummary {
	if payload.HasUser {
		return payload.User
	}
	role, email := claimsFromToken(payload.AccessToken)
	return model.UserSummary{Email: email, Role: role}
}

// commit mutates state under the caller's lock and returns the listener
// slice to notify after unlocking.
func (s *Session) commit(st State, user *model.UserSummary) []Listener {
	s.state = st
	if user == nil {
		s.user = nil
	} else {
		u := *user
		s.user = &u
	}
	return append([]Listener(nil), s.listeners...)
}

func notify(listeners []Listener, st State, user *model.UserSummary) {
	for _, l := range listeners {
		l(st, user)
	}
}

// friendlyLoginError rewrites the DRF-style "unable to log in" non-field
// error into the message the login form shows; every other error keeps its
// normalized backend message.
func friendlyLoginError(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.NonFieldErrors() {
		return &apiclient.APIError{Status: apiErr.Status, Message: "Invalid email or password", Fields: apiErr.Fields}
	}
	return err
}
