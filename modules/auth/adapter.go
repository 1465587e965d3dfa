package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-board/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
// Domain failures are returned as *apperror.Error.
type AuthPort interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*domain.Summary, error)
	SignIn(ctx context.Context, req *SignInRequest) (*SignInResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.Principal, error)
	GetUser(ctx context.Context, userID string) (*domain.Summary, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// SignUp creates an account.
func (a *AuthAdapter) SignUp(ctx context.Context, req *SignUpRequest) (*domain.Summary, error) {
	var resp SignUpResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"sign-up",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("sign-up request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.User, nil
}

// SignIn exchanges credentials for an access token.
func (a *AuthAdapter) SignIn(ctx context.Context, req *SignInRequest) (*SignInResponse, error) {
	var resp SignInResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"sign-in",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return &resp, nil
}

// ValidateToken validates an access token and returns the principal.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Principal, error) {
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&ValidateTokenRequest{Token: token},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid || resp.Principal == nil {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}

	return resp.Principal, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.Summary, error) {
	var resp GetUserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&GetUserRequest{UserID: userID},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.User, nil
}
