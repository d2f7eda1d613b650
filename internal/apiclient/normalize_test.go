package apiclient

import (
	"errors"
	"testing"
)

func TestNormalizeAuthResponseVariants(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantAccess  string
		wantRefresh string
		wantEmail   string
		wantUser    bool
	}{
		{
			name:        "simplejwt style with nested user",
			body:        `{"access":"a1","refresh":"r1","user":{"id":7,"name":"Ada","email":"ada@x.com","role":"student"}}`,
			wantAccess:  "a1",
			wantRefresh: "r1",
			wantEmail:   "ada@x.com",
			wantUser:    true,
		},
		{
			name:        "snake_case token fields",
			body:        `{"access_token":"a2","refresh_token":"r2"}`,
			wantAccess:  "a2",
			wantRefresh: "r2",
		},
		{
			name:       "bare token field, user flattened",
			body:       `{"token":"a3","id":9,"email":"bo@x.com","role":"sponsor","organization":"Acme"}`,
			wantAccess: "a3",
			wantEmail:  "bo@x.com",
			wantUser:   true,
		},
		{
			name:       "refresh response carries access only",
			body:       `{"access":"a4"}`,
			wantAccess: "a4",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NormalizeAuthResponse([]byte(tc.body))
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if p.AccessToken != tc.wantAccess {
				t.Fatalf("access = %q, want %q", p.AccessToken, tc.wantAccess)
			}
			if p.RefreshToken != tc.wantRefresh {
				t.Fatalf("refresh = %q, want %q", p.RefreshToken, tc.wantRefresh)
			}
			if p.HasUser != tc.wantUser {
				t.Fatalf("hasUser = %v, want %v", p.HasUser, tc.wantUser)
			}
			if p.User.Email != tc.wantEmail {
				t.Fatalf("email = %q, want %q", p.User.Email, tc.wantEmail)
			}
		})
	}
}

func TestNormalizeAuthResponseRejectsTokenless(t *testing.T) {
	_, err := NormalizeAuthResponse([]byte(`{"user":{"id":1,"email":"x@x.com"}}`))
	if !errors.Is(err, errNoAccessToken) {
		t.Fatalf("expected errNoAccessToken, got %v", err)
	}
}
