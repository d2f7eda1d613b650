package service

import (
	"context"
	"fmt"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/model"
)

// Backend endpoint paths for the application workflow.
const (
	applicationApplyTmpl  = "/applications/%d/"
	pathMyApplications    = "/applications/my-applications/"
	pathSponsorApps       = "/applications/sponsor/"
	applicationStatusTmpl = "/applications/%d/status/"
)

// ApplicationService proxies the scholarship application workflow: students
// apply and track, sponsors review and decide.
type ApplicationService struct {
	api *apiclient.Client
}

func NewApplicationService(api *apiclient.Client) *ApplicationService {
	return &ApplicationService{api: api}
}

// Apply submits an application to the given scholarship for the
// authenticated student.
func (s *ApplicationService) Apply(ctx context.Context, scholarshipID uint64, in model.ApplicationInput) (model.Application, error) {
	var out model.Application
	if err := s.api.Post(ctx, fmt.Sprintf(applicationApplyTmpl, scholarshipID), in, &out); err != nil {
		return model.Application{}, err
	}
	return out, nil
}

// Mine returns the authenticated student's applications with their statuses.
func (s *ApplicationService) Mine(ctx context.Context) ([]model.Application, error) {
	var out []model.Application
	if err := s.api.Get(ctx, pathMyApplications, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForSponsor returns applications made to the authenticated sponsor's
// listings.
func (s *ApplicationService) ForSponsor(ctx context.Context) ([]model.Application, error) {
	var out []model.Application
	if err := s.api.Get(ctx, pathSponsorApps, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus approves or rejects an application.  The status value is
// validated locally so malformed form submissions never reach the backend.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID uint64, status string) (model.Application, error) {
	if !model.ValidApplicationStatus(status) {
		return model.Application{}, fmt.Errorf("invalid application status %q", status)
	}
	var out model.Application
	if err := s.api.Patch(ctx, fmt.Sprintf(applicationStatusTmpl, applicationID), map[string]string{"status": status}, &out); err != nil {
		return model.Application{}, err
	}
	return out, nil
}
