// Package queue defines message payloads published to the message broker
// and the publisher that sends them.  The frontend only publishes; consumers
// (notification mailers, analytics) live elsewhere.
package queue

// Session event kinds.
const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
)

// SessionEvent is published when a browser session transitions between
// authenticated and unauthenticated, covering logins, logouts and forced
// expiries alike.
type SessionEvent struct {
	SessionID  string `json:"session_id"`
	Kind       string `json:"kind"`
	UserID     uint64 `json:"user_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// ApplicationSubmittedEvent is published when a student's application has
// been accepted by the backend.  It carries enough for downstream consumers
// to notify the sponsor without querying the backend again.
type ApplicationSubmittedEvent struct {
	ApplicationID    uint64 `json:"application_id"`
	ScholarshipID    uint64 `json:"scholarship_id"`
	ScholarshipTitle string `json:"scholarship_title,omitempty"`
	StudentID        uint64 `json:"student_id"`
	StudentEmail     string `json:"student_email,omitempty"`
	SubmittedAt      string `json:"submitted_at"`
}
