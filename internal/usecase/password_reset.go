package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/core/port"
	"github.com/rylimitless/electrolytes/internal/infra/security"
	"github.com/rylimitless/electrolytes/internal/repository"
)

// ErrInvalidSecurityAnswer indicates the supplied security answer does not match.
var ErrInvalidSecurityAnswer = errors.New("security answer does not match")

// PasswordResetService recovers accounts through the registered security question.
type PasswordResetService struct {
	users             port.UserRepository
	passwordValidator *security.PasswordValidator
	logger            *zap.Logger
	now               func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(users port.UserRepository, validator *security.PasswordValidator, logger *zap.Logger) *PasswordResetService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordResetService{
		users:             users,
		passwordValidator: validator,
		logger:            logger,
		now:               time.Now,
	}
}

// VerifySecurityAnswer checks the supplied answer against the account's stored
// answer digest. A nil return means the caller may proceed to ResetPassword.
func (s *PasswordResetService) VerifySecurityAnswer(ctx context.Context, username, answer string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrInvalidSecurityAnswer
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifySecret(answer, user.SecurityAnswerHash)
	if err != nil {
		s.logger.Warn("security answer verification failed", zap.String("username", username), zap.Error(err))
		return ErrInvalidSecurityAnswer
	}
	if !ok {
		return ErrInvalidSecurityAnswer
	}

	return nil
}

// ResetPassword replaces the account password after re-verifying the security
// answer. The answer gate runs on every call; callers cannot skip it by
// invoking VerifySecurityAnswer separately.
func (s *PasswordResetService) ResetPassword(ctx context.Context, username, answer, newPassword string) error {
	if err := s.VerifySecurityAnswer(ctx, username, answer); err != nil {
		return err
	}

	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}
	if err := s.passwordValidator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	hashed, err := security.HashSecret(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.users.UpdatePassword(ctx, strings.TrimSpace(username), hashed, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password reset completed", zap.String("username", strings.TrimSpace(username)))

	return nil
}
