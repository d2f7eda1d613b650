package model

import "time"

// Scholarship represents a scholarship listing as exposed by the backend's
// scholarship endpoints.  The frontend never stores these; they are decoded
// from backend responses and re-serialized to the browser.
//
// Fields:
//  ID          – backend identifier of the listing.
//  Title       – listing title.
//  Description – free-form description shown on the detail page.
//  Amount      – award amount in whole currency units.
//  Deadline    – application deadline.
//  SponsorID   – owning sponsor's user ID.
//  SponsorName – display name of the sponsor (list/detail convenience field).
//  Category    – coarse category used by the list filters.
//  CreatedAt   – when the listing was created.
type Scholarship struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      uint64    `json:"amount"`
	Deadline    time.Time `json:"deadline"`
	SponsorID   uint64    `json:"sponsor_id"`
	SponsorName string    `json:"sponsor_name,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScholarshipInput carries the fields a sponsor submits when creating or
// editing a listing.  Validation beyond presence checks is the backend's job.
type ScholarshipInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      uint64 `json:"amount"`
	Deadline    string `json:"deadline"`
	Category    string `json:"category,omitempty"`
}

// ScholarshipFilters narrows the public scholarship list.  Zero values mean
// "no filter" and are omitted from the outbound query string.
type ScholarshipFilters struct {
	Category  string
	MinAmount uint64
	Query     string
}
