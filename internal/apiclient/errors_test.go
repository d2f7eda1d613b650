package apiclient

import (
	"net/http"
	"testing"
)

func TestNormalizeErrorShapes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"empty body falls back to status text", http.StatusBadGateway, "", "Bad Gateway"},
		{"json string body", http.StatusBadRequest, `"Request was malformed"`, "Request was malformed"},
		{"message key", http.StatusForbidden, `{"message":"Not your scholarship"}`, "Not your scholarship"},
		{"detail key", http.StatusUnauthorized, `{"detail":"Token expired"}`, "Token expired"},
		{"message wins over detail", http.StatusBadRequest, `{"message":"m","detail":"d"}`, "m"},
		{"non_field_errors joined", http.StatusBadRequest, `{"non_field_errors":["Bad email","Bad password"]}`, "Bad email; Bad password"},
		{"field map becomes lines", http.StatusBadRequest, `{"email":["Already taken"],"role":["Unknown role"]}`, "email: Already taken; role: Unknown role"},
		{"non-json payload kept verbatim", http.StatusInternalServerError, "upstream exploded", "upstream exploded"},
		{"empty object falls back to raw", http.StatusBadRequest, `{}`, `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newAPIError(tc.status, []byte(tc.body))
			if e.Message != tc.want {
				t.Fatalf("message = %q, want %q", e.Message, tc.want)
			}
			if e.Status != tc.status {
				t.Fatalf("status = %d, want %d", e.Status, tc.status)
			}
		})
	}
}

func TestFieldErrorsPopulated(t *testing.T) {
	e := newAPIError(http.StatusBadRequest, []byte(`{"email":["Already taken","Too long"],"essay":["Required"]}`))
	if got := e.Fields["email"]; len(got) != 2 || got[0] != "Already taken" {
		t.Fatalf("email errors = %v", got)
	}
	if got := e.Fields["essay"]; len(got) != 1 || got[0] != "Required" {
		t.Fatalf("essay errors = %v", got)
	}
	if e.NonFieldErrors() {
		t.Fatal("field-only payload must not report non_field_errors")
	}
}

func TestNonFieldErrorsDetection(t *testing.T) {
	e := newAPIError(http.StatusUnauthorized, []byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
	if !e.NonFieldErrors() {
		t.Fatal("expected NonFieldErrors to be true")
	}
	if e.Message != "Unable to log in with provided credentials." {
		t.Fatalf("message = %q", e.Message)
	}
}
