package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/model"
)

// Backend endpoint paths for scholarship listings.
const (
	pathScholarships      = "/scholarships/"
	pathScholarshipSearch = "/scholarships/search/"
	pathSponsorListings   = "/sponsor/my-scholarships/"
	scholarshipDetailTmpl = "/scholarships/%d/"
)

// ScholarshipService proxies scholarship browsing and sponsor CRUD to the
// backend.  Listing reads are public (the bearer token rides along when one
// exists); create/update/delete are sponsor-only and rejected by the backend
// otherwise.
type ScholarshipService struct {
	api *apiclient.Client
}

func NewScholarshipService(api *apiclient.Client) *ScholarshipService {
	return &ScholarshipService{api: api}
}

// List returns scholarships matching the given filters.
func (s *ScholarshipService) List(ctx context.Context, f model.ScholarshipFilters) ([]model.Scholarship, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinAmount > 0 {
		q.Set("min_amount", strconv.FormatUint(f.MinAmount, 10))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	var out []model.Scholarship
	if err := s.api.Get(ctx, pathScholarships, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs a free-text search over listings.
func (s *ScholarshipService) Search(ctx context.Context, query string) ([]model.Scholarship, error) {
	q := url.Values{}
	q.Set("q", query)
	var out []model.Scholarship
	if err := s.api.Get(ctx, pathScholarshipSearch, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single listing by ID.
func (s *ScholarshipService) Get(ctx context.Context, id uint64) (model.Scholarship, error) {
	var out model.Scholarship
	if err := s.api.Get(ctx, fmt.Sprintf(scholarshipDetailTmpl, id), nil, &out); err != nil {
		return model.Scholarship{}, err
	}
	return out, nil
}

// Create publishes a new listing for the authenticated sponsor.
func (s *ScholarshipService) Create(ctx context.Context, in model.ScholarshipInput) (model.Scholarship, error) {
	var out model.Scholarship
	if err := s.api.Post(ctx, pathScholarships, in, &out); err != nil {
		return model.Scholarship{}, err
	}
	return out, nil
}

// Update edits an existing listing owned by the authenticated sponsor.
func (s *ScholarshipService) Update(ctx context.Context, id uint64, in model.ScholarshipInput) (model.Scholarship, error) {
	var out model.Scholarship
	if err := s.api.Put(ctx, fmt.Sprintf(scholarshipDetailTmpl, id), in, &out); err != nil {
		return model.Scholarship{}, err
	}
	return out, nil
}

// Delete removes a listing owned by the authenticated sponsor.
func (s *ScholarshipService) Delete(ctx context.Context, id uint64) error {
	return s.api.Delete(ctx, fmt.Sprintf(scholarshipDetailTmpl, id))
}

// Mine returns the authenticated sponsor's own listings.
func (s *ScholarshipService) Mine(ctx context.Context) ([]model.Scholarship, error) {
	var out []model.Scholarship
	if err := s.api.Get(ctx, pathSponsorListings, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
