// Package service contains the data-access services the page handlers call.
// Each service wraps the backend HTTP client for one resource family and
// normalizes responses into the internal model types.  Services never
// swallow errors: everything surfaces as an *apiclient.APIError (or the
// session-expired sentinel) for the caller to translate into UI feedback.
package service

import (
	"context"
	"encoding/json"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/model"
)

// Backend endpoint paths consumed by the auth service.  Exact paths are
// deployment-specific; these follow the EduBridge API's v1 contract.
const (
	pathLogin          = "/auth/login/"
	pathRegister       = "/auth/register/"
	pathForgotPassword = "/auth/forgot-password/"
	pathResetPassword  = "/auth/confirm-password/"
	pathProfileMe      = "/profile/me/"
)

// AuthService handles credential and profile operations against the backend.
type AuthService struct {
	api *apiclient.Client
}

func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{api: api}
}

// RegisterInput carries the registration form fields.  Organization is only
// meaningful for sponsors and omitted from the wire when empty.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
}

// ResetInput carries the password-reset confirmation fields.  UID and Token
// come from the reset link the backend mailed out.
type ResetInput struct {
	UID             string `json:"uid,omitempty"`
	Token           string `json:"token"`
	Email           string `json:"email,omitempty"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ProfileInput carries editable profile fields for either role.
type ProfileInput struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// Login submits credentials and returns the normalized token/user payload.
// The request bypasses the bearer/refresh machinery: a 401 here means the
// credentials were rejected, not that a session expired.
func (s *AuthService) Login(ctx context.Context, email, password string) (apiclient.AuthPayload, error) {
	var raw json.RawMessage
	err := s.api.PostPublic(ctx, pathLogin, map[string]string{"email": email, "password": password}, &raw)
	if err != nil {
		return apiclient.AuthPayload{}, err
	}
	return apiclient.NormalizeAuthResponse(raw)
}

// Register submits the registration form; on success the backend responds
// like login, with a token pair and the created user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (apiclient.AuthPayload, error) {
	var raw json.RawMessage
	err := s.api.PostPublic(ctx, pathRegister, in, &raw)
	if err != nil {
		return apiclient.AuthPayload{}, err
	}
	return apiclient.NormalizeAuthResponse(raw)
}

// ForgotPassword asks the backend to mail a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.api.PostPublic(ctx, pathForgotPassword, map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset started by ForgotPassword.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetInput) error {
	return s.api.PostPublic(ctx, pathResetPassword, in, nil)
}

// Profile fetches the authenticated user's record.  This is the startup
// validation call: session resume trusts its result over any cached blob.
func (s *AuthService) Profile(ctx context.Context) (model.UserSummary, error) {
	var u model.UserSummary
	if err := s.api.Get(ctx, pathProfileMe, nil, &u); err != nil {
		return model.UserSummary{}, err
	}
	return u, nil
}

// UpdateProfile writes profile changes and returns the updated record.
func (s *AuthService) UpdateProfile(ctx context.Context, in ProfileInput) (model.UserSummary, error) {
	var u model.UserSummary
	if err := s.api.Put(ctx, pathProfileMe, in, &u); err != nil {
		return model.UserSummary{}, err
	}
	return u, nil
}
