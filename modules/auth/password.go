package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	DefaultBcryptCost = 10
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned when a password exceeds bcrypt's input limit.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// PasswordHasher provides password hashing and verification functionality.
type PasswordHasher struct {
	cost    int
	compare func(hash, password []byte) error

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher creates a PasswordHasher. Costs outside bcrypt's range
// fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{
		cost:    cost,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Hash generates a bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	err := h.compare([]byte(hash), []byte(password))
	return err == nil
}

// VerifyMissing does the bcrypt work of Verify for an account that does not
// exist, against a fixed hash of the same cost. It always returns false.
func (h *PasswordHasher) VerifyMissing(password string) bool {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), h.cost)
	})
	_ = h.compare(h.dummy, []byte(password))
	return false
}
