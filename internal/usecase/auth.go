package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/core/port"
	"github.com/rylimitless/electrolytes/internal/infra/security"
	"github.com/rylimitless/electrolytes/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided username or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account exists but is not in the active state.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrUserNotFound indicates no account matches the supplied username.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken indicates the provided access token is malformed or signature validation failed.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrExpiredToken indicates the provided access token has expired.
	ErrExpiredToken = errors.New("access token expired")
)

// AuthService coordinates credential verification and token issuance.
type AuthService struct {
	users  port.UserRepository
	tokens *security.TokenService
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, tokens *security.TokenService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	User        domain.User
}

// Login validates credentials and issues an access token for the account.
// Both unknown usernames and wrong passwords produce ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifySecret(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("password verification failed", zap.String("username", username), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.Status != domain.StatusActive {
		return nil, ErrInactiveAccount
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	loginAt := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.Username, loginAt); err != nil {
		// Login proceeds even when the timestamp write fails.
		s.logger.Warn("update last login failed", zap.String("username", username), zap.Error(err))
	} else {
		user.LastLogin = &loginAt
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.DefaultTTL().Seconds()),
		User:        user.Sanitized(),
	}, nil
}

// GetCurrentUser resolves the access token to its account.
func (s *AuthService) GetCurrentUser(ctx context.Context, token string) (domain.User, error) {
	username, err := s.ValidateToken(token)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	return user.Sanitized(), nil
}

// ValidateToken verifies the access token and returns its subject username.
func (s *AuthService) ValidateToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	username, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	return username, nil
}
