package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a user already exists.
	ErrUserExists = errors.New("user with this email already exists")
)

const (
	minNameLength = 3
	maxNameLength = 100
)

// UserDirectory is the persistence contract of the auth workflow.
type UserDirectory interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

var _ UserDirectory = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create validates and inserts user. Constraint violations are reported as
// *apperror.StoreValidationError, a duplicate email as ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if details := validateUser(user); len(details) > 0 {
		return apperror.NewStoreValidation(details...)
	}

	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return result.Error
	}
	return nil
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperror.NewStoreValidation("email is required")
	}

	var user domain.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func validateUser(user *domain.User) []string {
	var details []string
	if _, err := mail.ParseAddress(user.Email); err != nil {
		details = append(details, "email must be a valid email address")
	}
	if n := utf8.RuneCountInString(user.Name); n < minNameLength || n > maxNameLength {
		details = append(details, "name must be between 3 and 100 characters")
	}
	if !user.Role.Valid() {
		details = append(details, "role must be USER or ADMIN")
	}
	if user.PasswordHash == "" {
		details = append(details, "password hash is required")
	}
	return details
}
