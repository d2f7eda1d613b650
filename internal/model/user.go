package model

// Role values used by the EduBridge backend.  The role discriminates which
// route group and dashboard a user may access.  Values are lower-case on the
// wire.
const (
	RoleStudent = "student"
	RoleSponsor = "sponsor"
)

// UserSummary is the cached representation of the authenticated user as
// returned by the backend's login/register/profile endpoints.  It is
// persisted JSON-encoded under the `user` key of the credential store and is
// advisory only: the authoritative identity is whatever the backend returns
// on the next profile fetch.
//
// Fields:
//  ID           – backend identifier of the user.
//  Name         – display name.
//  Email        – unique email address.
//  Role         – "student" or "sponsor".
//  Organization – sponsor organization name (empty for students).
type UserSummary struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
}

// KnownRole reports whether the given role maps to a route group this
// application serves.  Unknown roles are routed to the login entry point by
// the guard rather than granted access anywhere.
func KnownRole(role string) bool {
	return role == RoleStudent || role == RoleSponsor
}
