package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
	"time"     // time is used for request timeout and session lifetime values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  This application is a frontend over the remote
// EduBridge REST backend, so the values describe where that backend lives and
// how browser sessions behave rather than any local storage.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	BackendBaseURL string        // base URL of the remote EduBridge REST API
	RefreshPath    string        // backend path that exchanges refresh tokens for access tokens
	RequestTimeout time.Duration // per-request timeout for backend calls
	SessionCookie  string        // name of the browser session cookie
	SessionTTLDays int           // lifetime of persisted session credentials in days
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Values that have a
// sensible default use getenv().
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),                       // environment (dev/test/prod)
		Port:           must("APP_PORT"),                      // port to bind the HTTP server
		BackendBaseURL: must("BACKEND_BASE_URL"),              // remote API base, e.g. http://127.0.0.1:8000/api/v1
		RefreshPath:    getenv("BACKEND_REFRESH_PATH", "/token/refresh/"),
		RequestTimeout: parseDur(getenv("BACKEND_TIMEOUT", "10s")),
		SessionCookie:  getenv("SESSION_COOKIE_NAME", "ebsid"),
		SessionTTLDays: mustIntDefault("SESSION_TTL_DAYS", 7), // matches the backend's refresh token lifetime
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustIntDefault reads an integer environment variable, falling back to the
// given default when unset.  A set-but-unparsable value is a fatal error so
// misconfiguration fails loudly at startup.
func mustIntDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
