package session

import "github.com/golang-jwt/jwt/v5"

// claimsFromToken decodes the role and email claims of an access token
// without verifying the signature.  The signing secret belongs to the remote
// backend, so the claims are advisory: good enough for choosing which
// dashboard to show first, never for an authorization decision.
func claimsFromToken(raw string) (role, email string) {
	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return "", ""
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ""
	}
	role, _ = claims["role"].(string)
	email, _ = claims["email"].(string)
	return role, email
}
