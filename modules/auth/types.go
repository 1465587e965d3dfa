package auth

import (
	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/user"
)

// SignUpRequest represents a sign-up request.
type SignUpRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role,omitempty"`
}

// SignUpResponse carries the created user or a domain error.
type SignUpResponse struct {
	User  *domain.Summary `json:"user,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}

// SignInRequest represents a sign-in request.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the issued token or a domain error.
type SignInResponse struct {
	AccessToken string          `json:"access_token,omitempty"`
	TokenType   string          `json:"token_type,omitempty"`
	ExpiresIn   int64           `json:"expires_in,omitempty"`
	User        *domain.Summary `json:"user,omitempty"`
	Error       *apperror.Error `json:"error,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid     bool              `json:"valid"`
	Principal *domain.Principal `json:"principal,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse carries the user or a domain error.
type GetUserResponse struct {
	User  *domain.Summary `json:"user,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}
