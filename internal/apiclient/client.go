// Package apiclient is the single choke point for calls to the remote
// EduBridge REST backend.  It attaches the session's bearer token to every
// outgoing request and enforces the token-refresh protocol: on a 401 it
// performs at most one refresh-and-resubmit cycle, and when refresh is
// impossible it wipes the credential store and reports ErrSessionExpired so
// the HTTP layer can send the browser back to the login page.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/edubridge/edubridge-web/internal/credstore"
)

// maxErrorBody bounds how much of an error response is read for message
// normalization.
const maxErrorBody = 64 << 10

// Client talks to the backend on behalf of one browser session.  Instances
// share the underlying *http.Client; the per-session part is the credential
// store the bearer token is read from.
type Client struct {
	base        string
	refreshPath string
	httpc       *http.Client
	creds       credstore.Store
	refreshing  singleflight.Group
}

// New builds a Client for the given backend base URL.  refreshPath is the
// backend endpoint that exchanges refresh tokens for access tokens.  Passing
// a nil *http.Client uses a default with a 10 second timeout.
func New(baseURL, refreshPath string, creds credstore.Store, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		base:        strings.TrimRight(baseURL, "/"),
		refreshPath: refreshPath,
		httpc:       httpc,
		creds:       creds,
	}
}

// Get issues an authenticated GET.  out, when non-nil, receives the decoded
// JSON response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, true, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, true, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, true, out)
}

// Patch issues an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, true, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true, nil)
}

// PostPublic issues a POST without a bearer token and outside the refresh
// protocol.  Login, register and the password-reset endpoints use it: a 401
// from those means bad credentials, not an expired session.
func (c *Client) PostPublic(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, false, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, withAuth bool, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	respBody, err := c.send(ctx, method, target, payload, withAuth, false)
	if err != nil {
		return err
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// send performs one attempt plus at most one refresh-and-resubmit cycle.
// The retried flag is threaded explicitly through the recursive call rather
// than stored on a shared request object, so a resubmitted request can never
// trigger a second refresh no matter how it fails.
func (c *Client) send(ctx context.Context, method, target string, payload []byte, withAuth, retried bool) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		// Attach the bearer token only when one exists; guests send plain
		// requests.
		tok, ok, gerr := c.creds.Get(ctx, credstore.KeyAccessToken)
		if gerr != nil {
			return nil, fmt.Errorf("credential store: %w", gerr)
		}
		if ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Network-level failure: no response was received, so the refresh
		// protocol does not apply.
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		// Only error bodies are size-capped; a backend in a bad state can
		// send anything and the payload is just message material.
		respBody, rerr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if rerr != nil {
			return nil, rerr
		}
		if resp.StatusCode == http.StatusUnauthorized && withAuth && !retried {
			if ferr := c.refreshAccess(ctx); ferr != nil {
				c.expireSession(ctx)
				return nil, fmt.Errorf("%w: %v", ErrSessionExpired, ferr)
			}
			// Resubmit exactly once with the new token.
			return c.send(ctx, method, target, payload, withAuth, true)
		}
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	// Success bodies pass through whole, however large the listing.
	return io.ReadAll(resp.Body)
}

// errNoRefreshToken short-circuits the refresh call when the store holds no
// refresh token; no network round trip is attempted in that case.
var errNoRefreshToken = errors.New("no refresh token stored")

// refreshAccess exchanges the stored refresh token for a fresh access token.
// Concurrent 401s from parallel requests of the same session collapse into a
// single backend call via the singleflight group; every waiter shares the
// outcome.
func (c *Client) refreshAccess(ctx context.Context) error {
	rt, ok, err := c.creds.Get(ctx, credstore.KeyRefreshToken)
	if err != nil {
		return err
	}
	if !ok {
		return errNoRefreshToken
	}

	_, err, _ = c.refreshing.Do(rt, func() (any, error) {
		body, merr := json.Marshal(map[string]string{"refresh": rt})
		if merr != nil {
			return nil, merr
		}
		req, rerr := http.NewRequestWithContext(ctx, http.MethodPost, c.base+c.refreshPath, bytes.NewReader(body))
		if rerr != nil {
			return nil, rerr
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, derr := c.httpc.Do(req)
		if derr != nil {
			return nil, derr
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 {
			respBody, rderr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			if rderr != nil {
				return nil, rderr
			}
			return nil, newAPIError(resp.StatusCode, respBody)
		}
		respBody, rderr := io.ReadAll(resp.Body)
		if rderr != nil {
			return nil, rderr
		}

		p, perr := NormalizeAuthResponse(respBody)
		if perr != nil {
			return nil, perr
		}
		if serr := c.creds.Set(ctx, credstore.KeyAccessToken, p.AccessToken); serr != nil {
			return nil, serr
		}
		// Backends that rotate refresh tokens return a replacement; keep it
		// or the next refresh would use a revoked token.
		if p.RefreshToken != "" {
			if serr := c.creds.Set(ctx, credstore.KeyRefreshToken, p.RefreshToken); serr != nil {
				return nil, serr
			}
		}
		return nil, nil
	})
	return err
}

// expireSession wipes every stored credential.  The failure that led here is
// already being surfaced to the caller, so a wipe error is only logged.
func (c *Client) expireSession(ctx context.Context) {
	if err := c.creds.Clear(ctx); err != nil {
		log.Printf("apiclient: clearing credential store failed: %v", err)
	}
}
