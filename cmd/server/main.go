package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/config"
	"github.com/edubridge/edubridge-web/internal/credstore"
	"github.com/edubridge/edubridge-web/internal/handler"
	"github.com/edubridge/edubridge-web/internal/middleware"
	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/queue"
	"github.com/edubridge/edubridge-web/internal/router"
	"github.com/edubridge/edubridge-web/internal/session"
)

func main() {
	// Load a local .env when present; real deployments set the environment
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	// Redis backs the credential store, the login rate limiter and the
	// scholarship response cache.  Without it the frontend still runs:
	// credentials live in process memory, limiting and caching are off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; sessions are process-local, rate limiting and caching disabled")
	}

	httpc := &http.Client{Timeout: cfg.RequestTimeout}
	sessionTTL := time.Duration(cfg.SessionTTLDays) * 24 * time.Hour

	newStore := func(sessionID string) credstore.Store {
		if rdb == nil {
			return credstore.NewMemoryStore()
		}
		return credstore.NewRedisStore(rdb, sessionID, sessionTTL)
	}
	newClient := func(creds credstore.Store) *apiclient.Client {
		return apiclient.New(cfg.BackendBaseURL, cfg.RefreshPath, creds, httpc)
	}

	sessions := session.NewManager(newStore, newClient)
	sessions.OnTransition(func(sessionID string, st session.State, user *model.UserSummary) {
		evt := queue.SessionEvent{
			SessionID:  sessionID,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		switch {
		case st == session.StateAuthenticated && user != nil:
			evt.Kind = queue.SessionSignedIn
		case st == session.StateUnauthenticated && user != nil:
			evt.Kind = queue.SessionSignedOut
		default:
			// Guest sessions resolving to unauthenticated are not events.
			return
		}
		evt.UserID = user.ID
		evt.Email = user.Email
		evt.Role = user.Role
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishSessionEvent(ctx, evt)
	})

	e := echo.New()
	// Dev runs speak plain HTTP; everywhere else the session cookie is
	// HTTPS-only.
	e.Use(middleware.LoadSession(sessions, cfg.SessionCookie, sessionTTL, cfg.Env != "dev"))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(), config.LoadRateLimitConfig(), rdb)
	router.RegisterStudent(e, handler.NewStudentHandler(), config.LoadCacheConfig(), rdb)
	router.RegisterSponsor(e, handler.NewSponsorHandler())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.BackendBaseURL)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
