// Package credstore persists the credentials of a browser session: the
// access token, the refresh token, and the JSON-encoded cached user record.
// It is the Go-side equivalent of the browser's per-origin local storage and
// must survive page reloads, so the primary implementation is Redis with a
// lifetime matching the refresh token.  The store performs no validation of
// stored values; callers own the JSON encoding of structured values.
package credstore

import "context"

// Canonical keys.  Every credential a session owns lives under one of these;
// Clear removes them all at once.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Store is the key/value contract shared by the Redis and in-memory
// implementations.  Get returns ok=false for absent keys; absent and empty
// are distinct only at the wire level, so implementations treat an empty
// value as absent.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
