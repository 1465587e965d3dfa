package auth

import (
	"errors"
	"time"

	domain "github.com/example/task-board/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultTokenDuration is the fixed lifetime of an access token.
const DefaultTokenDuration = 7 * 24 * time.Hour

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	SecretKey     string
	TokenDuration time.Duration
	Issuer        string
}

// DefaultJWTConfig returns a default JWT configuration.
// In production, the secret key should be loaded from environment variables.
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:     "change-me-task-board-secret",
		TokenDuration: DefaultTokenDuration,
		Issuer:        "task-board",
	}
}

// JWTClaims carries the principal. The user id travels as the subject.
type JWTClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token operations.
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWTManager with the given configuration.
func NewJWTManager(config JWTConfig) *JWTManager {
	if config.TokenDuration <= 0 {
		config.TokenDuration = DefaultTokenDuration
	}
	return &JWTManager{
		config: config,
	}
}

// GenerateToken signs an access token for p.
func (m *JWTManager) GenerateToken(p domain.Principal) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// ValidateToken parses tokenString and returns the principal it carries.
func (m *JWTManager) ValidateToken(tokenString string) (*domain.Principal, error) {
	var opts []jwt.ParserOption
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &domain.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// TokenDuration returns the token lifetime in seconds.
func (m *JWTManager) TokenDuration() int64 {
	return int64(m.config.TokenDuration.Seconds())
}
