package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides authentication services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
	logger  types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(logger types.Logger) *AuthModule {
	dbPath := os.Getenv("AUTH_DB_PATH")
	if dbPath == "" {
		dbPath = "auth.db"
	}
	return &AuthModule{
		dbPath: dbPath,
		logger: logger.WithModule("auth"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start opens the user database and wires the service.
func (m *AuthModule) Start(_ context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewAuthService(
		NewUserRepository(db),
		NewPasswordHasher(loadBcryptCost()),
		NewJWTManager(loadJWTConfig()),
	)

	m.logger.Info("Module started", "database", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "sign-up", json.Unmarshal, json.Marshal, m.handleSignUp,
	); err != nil {
		return fmt.Errorf("failed to register sign-up service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "sign-in", json.Unmarshal, json.Marshal, m.handleSignIn,
	); err != nil {
		return fmt.Errorf("failed to register sign-in service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	m.logger.Info("Registered services", "services", "sign-up, sign-in, validate-token, get-user")
	return nil
}

func (m *AuthModule) handleSignUp(ctx context.Context, req SignUpRequest, _ *mono.Msg) (SignUpResponse, error) {
	user, err := m.service.SignUp(ctx, SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		domainErr, err := apperror.Split(err)
		if err != nil {
			m.logger.Error("Sign-up failed", "error", err)
		}
		return SignUpResponse{Error: domainErr}, err
	}

	m.logger.Info("User signed up", "user_id", user.ID, "role", user.Role)
	return SignUpResponse{User: user}, nil
}

func (m *AuthModule) handleSignIn(ctx context.Context, req SignInRequest, _ *mono.Msg) (SignInResponse, error) {
	result, err := m.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		domainErr, err := apperror.Split(err)
		if err != nil {
			m.logger.Error("Sign-in failed", "error", err)
		}
		return SignInResponse{Error: domainErr}, err
	}

	return SignInResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        &result.User,
	}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	principal, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		// Rejections are a normal reply, not a transport failure.
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid:     true,
		Principal: principal,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		domainErr, err := apperror.Split(err)
		return GetUserResponse{Error: domainErr}, err
	}
	return GetUserResponse{User: user}, nil
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			config.TokenDuration = d
		}
	}

	return config
}

func loadBcryptCost() int {
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			return cost
		}
	}
	return DefaultBcryptCost
}
