package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/user"
	"github.com/google/uuid"
)

// SignUpInput holds the fields of a new account.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

// SignInResult is returned by a successful sign-in.
type SignInResult struct {
	AccessToken string
	ExpiresIn   int64
	User        domain.Summary
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserDirectory
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserDirectory, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
	}
}

// SignUp creates a new account. The role defaults to USER.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.Summary, error) {
	email := strings.TrimSpace(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.EmailAlreadyExists()
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return nil, apperror.WrapValidation(apperror.CodeSignUpValidation, err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, apperror.Validation(apperror.CodeSignUpValidation, err.Error())
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, apperror.EmailAlreadyExists()
		}
		return nil, apperror.WrapValidation(apperror.CodeSignUpValidation, err)
	}

	summary := user.ToSummary()
	return &summary, nil
}

// SignIn verifies credentials and issues an access token. Unknown emails and
// wrong passwords yield the same InvalidCredentials error after the same
// bcrypt work.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.VerifyMissing(password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.WrapValidation(apperror.CodeSignInValidation, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.jwt.GenerateToken(domain.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &SignInResult{
		AccessToken: token,
		ExpiresIn:   s.jwt.TokenDuration(),
		User:        user.ToSummary(),
	}, nil
}

// ValidateToken validates an access token and returns its principal.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Principal, error) {
	return s.jwt.ValidateToken(token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.Summary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.UserNotFound()
		}
		return nil, err
	}
	summary := user.ToSummary()
	return &summary, nil
}
