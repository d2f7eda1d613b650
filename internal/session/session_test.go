package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/credstore"
	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/service"
)

// authBackend fakes the remote auth endpoints for session tests.  One fixed
// account ("ada@x.com" / "open sesame") can log in; /profile/me/ accepts one
// fixed bearer token.
type authBackend struct {
	profileCalls atomic.Int64
	profileUser  model.UserSummary
	profileDelay time.Duration
	validAccess  string
	srv          *httptest.Server
}

func newAuthBackend(t *testing.T) *authBackend {
	t.Helper()
	b := &authBackend{
		validAccess: "tok-good",
		profileUser: model.UserSummary{ID: 7, Name: "Ada", Email: "ada@x.com", Role: model.RoleStudent},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "ada@x.com" || req.Password != "open sesame" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  b.validAccess,
			"refresh": "ref-good",
			"user":    b.profileUser,
		})
	})
	mux.HandleFunc("/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		// Responds with the bare "token" field variant and no user object.
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":         signedToken(t, "sponsor", "bo@x.com"),
			"refresh_token": "ref-new",
		})
	})
	mux.HandleFunc("/profile/me/", func(w http.ResponseWriter, r *http.Request) {
		b.profileCalls.Add(1)
		if b.profileDelay > 0 {
			time.Sleep(b.profileDelay)
		}
		if r.Header.Get("Authorization") != "Bearer "+b.validAccess {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"token invalid"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(b.profileUser)
	})
	mux.HandleFunc("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"refresh rejected"}`))
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func signedToken(t *testing.T, role, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role":  role,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newTestSession(t *testing.T, b *authBackend) (*Session, credstore.Store) {
	t.Helper()
	creds := credstore.NewMemoryStore()
	api := apiclient.New(b.srv.URL, "/token/refresh/", creds, b.srv.Client())
	return newSession("sess-1", creds, api), creds
}

func TestLoginSuccessPersistsAndAuthenticates(t *testing.T) {
	b := newAuthBackend(t)
	s, creds := newTestSession(t, b)
	ctx := context.Background()

	user, err := s.Login(ctx, "ada@x.com", "open sesame")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "ada@x.com" || user.Role != model.RoleStudent {
		t.Fatalf("unexpected user: %+v", user)
	}
	if s.State() != StateAuthenticated || !s.IsAuthenticated() {
		t.Fatalf("state = %v", s.State())
	}
	for key, want := range map[string]string{
		credstore.KeyAccessToken:  "tok-good",
		credstore.KeyRefreshToken: "ref-good",
	} {
		got, ok, _ := creds.Get(ctx, key)
		if !ok || got != want {
			t.Fatalf("%s = %q ok=%v, want %q", key, got, ok, want)
		}
	}
	blob, ok, _ := creds.Get(ctx, credstore.KeyUser)
	if !ok {
		t.Fatal("user record not cached")
	}
	var cached model.UserSummary
	if err := json.Unmarshal([]byte(blob), &cached); err != nil || cached.ID != 7 {
		t.Fatalf("cached user blob: %q err=%v", blob, err)
	}
}

func TestLoginRejectionLeavesSessionUntouched(t *testing.T) {
	b := newAuthBackend(t)
	s, creds := newTestSession(t, b)
	ctx := context.Background()

	_, err := s.Login(ctx, "ada@x.com", "wrong")
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if s.IsAuthenticated() {
		t.Fatal("failed login authenticated the session")
	}
	if _, ok, _ := creds.Get(ctx, credstore.KeyAccessToken); ok {
		t.Fatal("failed login stored a token")
	}
}

func TestRegisterFallsBackToTokenClaims(t *testing.T) {
	b := newAuthBackend(t)
	s, _ := newTestSession(t, b)

	user, err := s.Register(context.Background(), service.RegisterInput{
		Name:         "Bo",
		Email:        "bo@x.com",
		Password:     "open sesame",
		Role:         model.RoleSponsor,
		Organization: "Acme Grants",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	// No user object in the response; identity comes from the token claims.
	if user.Email != "bo@x.com" || user.Role != model.RoleSponsor {
		t.Fatalf("claims fallback user: %+v", user)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %v", s.State())
	}
}

func TestLogoutIsIdempotentAndClearsEverything(t *testing.T) {
	b := newAuthBackend(t)
	s, creds := newTestSession(t, b)
	ctx := context.Background()

	if _, err := s.Login(ctx, "ada@x.com", "open sesame"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.State() != StateUnauthenticated || s.User() != nil {
		t.Fatalf("state after logout: %v user=%v", s.State(), s.User())
	}
	for _, key := range []string{credstore.KeyAccessToken, credstore.KeyRefreshToken, credstore.KeyUser} {
		if _, ok, _ := creds.Get(ctx, key); ok {
			t.Fatalf("%s survived logout", key)
		}
	}
	// Second logout on the already-signed-out session.
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
}

func TestResumeWithoutTokenIsUnauthenticated(t *testing.T) {
	b := newAuthBackend(t)
	s, _ := newTestSession(t, b)

	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.State() != StateUnauthenticated {
		t.Fatalf("state = %v", s.State())
	}
	if n := b.profileCalls.Load(); n != 0 {
		t.Fatalf("guest resume hit the profile endpoint %d times", n)
	}
}

func TestResumeValidatesStoredToken(t *testing.T) {
	b := newAuthBackend(t)
	s, creds := newTestSession(t, b)
	ctx := context.Background()
	_ = creds.Set(ctx, credstore.KeyAccessToken, "tok-good")

	if err := s.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %v", s.State())
	}
	if u := s.User(); u == nil || u.Email != "ada@x.com" {
		t.Fatalf("user = %+v", u)
	}
	if n := b.profileCalls.Load(); n != 1 {
		t.Fatalf("profile calls = %d, want 1", n)
	}
}

func TestResumeRunsOnlyOnce(t *testing.T) {
	b := newAuthBackend(t)
	s, creds := newTestSession(t, b)
	ctx := context.Background()
	_ = creds.Set(ctx, credstore.KeyAccessToken, "tok-good")

	for i := 0; i < 3; i++ {
		if err := s.Resume(ctx); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}
	if n := b.profileCalls.Load(); n != 1 {
		t.Fatalf("profile calls = %d, want 1", n)
	}
}

func TestConcurrentResumesShareOneValidation(t *testing.T) {
	b := newAuthBackend(t)
	b.profileDelay = 150 * time.Millisecond // hold the validation window open
	s, creds := newTestSession(t, b)
	ctx := context.Background()
	_ = creds.Set(ctx, credstore.KeyAccessToken, "tok-good")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Resume(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}
	if n := b.profileCalls.Load(); n != 1 {
		t.Fatalf("profile calls = %d, want 1", n)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %v", s.State())
	}
}

func TestResumeWithRejectedTokenPurgesCredentials(t *testing.T) {
	b := newAuthBackend(t)
	s, creds := newTestSession(t, b)
	ctx := context.Background()
	_ = creds.Set(ctx, credstore.KeyAccessToken, "tok-revoked")
	_ = creds.Set(ctx, credstore.KeyRefreshToken, "ref-revoked")
	_ = creds.Set(ctx, credstore.KeyUser, `{"id":7}`)

	if err := s.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.State() != StateUnauthenticated {
		t.Fatalf("state = %v", s.State())
	}
	for _, key := range []string{credstore.KeyAccessToken, credstore.KeyRefreshToken, credstore.KeyUser} {
		if _, ok, _ := creds.Get(ctx, key); ok {
			t.Fatalf("%s survived failed validation", key)
		}
	}
}

func TestSubscriberSeesTransitions(t *testing.T) {
	b := newAuthBackend(t)
	s, _ := newTestSession(t, b)
	ctx := context.Background()

	type event struct {
		st   State
		user *model.UserSummary
	}
	var events []event
	s.Subscribe(func(st State, user *model.UserSummary) {
		events = append(events, event{st, user})
	})

	if _, err := s.Login(ctx, "ada@x.com", "open sesame"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].st != StateAuthenticated || events[0].user == nil || events[0].user.Email != "ada@x.com" {
		t.Fatalf("sign-in event: %+v", events[0])
	}
	// Sign-out reports the user who held the session.
	if events[1].st != StateUnauthenticated || events[1].user == nil || events[1].user.Email != "ada@x.com" {
		t.Fatalf("sign-out event: %+v", events[1])
	}
}
