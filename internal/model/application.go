package model

import "time"

// Application status values as used by the backend's application workflow.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Application is a student's application to a scholarship, as returned by
// the backend.  Students see their own applications; sponsors see the
// applications made to their listings.
//
// Fields:
//  ID               – backend identifier of the application.
//  ScholarshipID    – target listing.
//  ScholarshipTitle – title of the target listing (list convenience field).
//  StudentID        – applying student's user ID.
//  StudentName      – display name of the student (sponsor view).
//  Essay            – motivation text submitted with the application.
//  Status           – pending, approved or rejected.
//  SubmittedAt      – when the application was created.
type Application struct {
	ID               uint64    `json:"id"`
	ScholarshipID    uint64    `json:"scholarship_id"`
	ScholarshipTitle string    `json:"scholarship_title,omitempty"`
	StudentID        uint64    `json:"student_id"`
	StudentName      string    `json:"student_name,omitempty"`
	Essay            string    `json:"essay"`
	Status           string    `json:"status"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// ApplicationInput carries the fields a student submits when applying.
type ApplicationInput struct {
	Essay string `json:"essay"`
}

// ValidApplicationStatus reports whether a sponsor-submitted status value is
// one the workflow accepts.  "pending" is backend-assigned and cannot be set
// through the status-update endpoint.
func ValidApplicationStatus(s string) bool {
	return s == ApplicationApproved || s == ApplicationRejected
}
