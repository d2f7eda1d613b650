package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrSessionExpired is returned when the refresh protocol gives up: the
// backend rejected a request with 401 and either no refresh token was stored
// or the refresh call itself failed.  By the time callers see this error the
// credential store has already been cleared; the HTTP layer translates it
// into a redirect to the login entry point.
var ErrSessionExpired = errors.New("session expired")

// APIError is the canonical form of a backend error response.  The backend
// returns error bodies in several shapes; newAPIError folds them all into a
// single human-readable Message so pages never have to inspect raw payloads.
type APIError struct {
	Status  int                 // HTTP status code of the response
	Message string              // normalized human-readable message
	Fields  map[string][]string // field-level validation errors, when present
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

// NonFieldErrors reports whether the error carried a DRF-style
// non_field_errors array, which typically signals rejected credentials.
func (e *APIError) NonFieldErrors() bool {
	_, ok := e.Fields["non_field_errors"]
	return ok
}

// newAPIError normalizes an error response body.  Accepted shapes, in order:
//
//  1. empty body                      -> standard status text
//  2. JSON string body                -> that string
//  3. {"message": "..."}              -> message value
//  4. {"detail": "..."}               -> detail value
//  5. {"non_field_errors": ["..."]}   -> joined array values
//  6. {"field": ["...", ...], ...}    -> "field: msg" lines, Fields populated
//  7. anything else                   -> raw payload as text
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Message: normalizeMessage(status, body)}
	e.Fields = fieldErrors(body)
	return e
}

func normalizeMessage(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return http.StatusText(status)
	}

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil && asString != "" {
		return asString
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		// Not JSON at all; surface the raw payload.
		return trimmed
	}

	for _, key := range []string{"message", "detail"} {
		if raw, ok := obj[key]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}
	}

	if raw, ok := obj["non_field_errors"]; ok {
		if msgs := stringArray(raw); len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	if fields := fieldErrors(body); len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(fields[k], "; "))
		}
		return strings.Join(parts, "; ")
	}

	return trimmed
}

// fieldErrors extracts {"field": ["msg", ...]} validation maps.  Returns nil
// when the body is not shaped that way.
func fieldErrors(body []byte) map[string][]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return nil
	}
	out := map[string][]string{}
	for k, raw := range obj {
		if msgs := stringArray(raw); len(msgs) > 0 {
			out[k] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringArray(raw json.RawMessage) []string {
	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	var out []string
	for _, s := range arr {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
