package apiclient

import (
	"encoding/json"
	"errors"

	"github.com/edubridge/edubridge-web/internal/model"
)

// AuthPayload is the canonical internal form of a login/register/refresh
// response.  RefreshToken and User may be empty: refresh responses carry only
// a new access token unless the backend rotates refresh tokens.
type AuthPayload struct {
	AccessToken  string
	RefreshToken string
	User         model.UserSummary
	HasUser      bool
}

// authWire lists every field name variant observed across backend versions.
// Tokens may arrive under `access`, `access_token` or `token`; the refresh
// token under `refresh` or `refresh_token`; the user either nested under
// `user` or flattened into the top level.
type authWire struct {
	Access       string            `json:"access"`
	AccessToken  string            `json:"access_token"`
	Token        string            `json:"token"`
	Refresh      string            `json:"refresh"`
	RefreshToken string            `json:"refresh_token"`
	User         *model.UserSummary `json:"user"`

	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
}

// errNoAccessToken is returned when a response claiming success carries no
// recognizable access token under any accepted field name.
var errNoAccessToken = errors.New("auth response contains no access token")

// NormalizeAuthResponse decodes an auth response body into its canonical
// form.  Field variants are tried in a fixed order so the accepted shapes are
// documented in one place instead of ad hoc at each call site.
func NormalizeAuthResponse(body []byte) (AuthPayload, error) {
	var w authWire
	if err := json.Unmarshal(body, &w); err != nil {
		return AuthPayload{}, err
	}

	p := AuthPayload{
		AccessToken:  firstNonEmpty(w.Access, w.AccessToken, w.Token),
		RefreshToken: firstNonEmpty(w.Refresh, w.RefreshToken),
	}
	if p.AccessToken == "" {
		return AuthPayload{}, errNoAccessToken
	}

	switch {
	case w.User != nil:
		p.User = *w.User
		p.HasUser = true
	case w.Email != "" || w.ID != 0:
		p.User = model.UserSummary{
			ID:           w.ID,
			Name:         w.Name,
			Email:        w.Email,
			Role:         w.Role,
			Organization: w.Organization,
		}
		p.HasUser = true
	}
	return p, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
