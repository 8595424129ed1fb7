package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	uuid "github.com/google/uuid"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/core/port"
	"github.com/rylimitless/electrolytes/internal/infra/security"
	"github.com/rylimitless/electrolytes/internal/repository"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
)

var (
	// ErrUsernameTaken indicates the requested username is already registered.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken indicates the requested email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidUsername indicates the username fails length validation.
	ErrInvalidUsername = fmt.Errorf("username must be between %d and %d characters", usernameMinLength, usernameMaxLength)
	// ErrInvalidEmail indicates a supplied email address is malformed. Email
	// itself is optional at signup.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidSecurityQuestion indicates the question is not one of the supported prompts.
	ErrInvalidSecurityQuestion = errors.New("unsupported security question")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
)

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	users             port.UserRepository
	passwordValidator *security.PasswordValidator
	now               func() time.Time
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(users port.UserRepository, validator *security.PasswordValidator) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &RegistrationService{
		users:             users,
		passwordValidator: validator,
		now:               time.Now,
	}
}

// RegisterInput carries the fields collected at signup.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	SecurityQuestion domain.SecurityQuestion
	SecurityAnswer   string
}

// Register validates the input, hashes the credentials, and persists the account.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if n := utf8.RuneCountInString(username); n < usernameMinLength || n > usernameMaxLength {
		return domain.User{}, ErrInvalidUsername
	}

	email := strings.TrimSpace(input.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}

	if !input.SecurityQuestion.Valid() {
		return domain.User{}, ErrInvalidSecurityQuestion
	}

	answer := strings.TrimSpace(input.SecurityAnswer)
	if answer == "" {
		return domain.User{}, fmt.Errorf("security answer is required")
	}

	password := strings.TrimSpace(input.Password)
	if password == "" {
		return domain.User{}, fmt.Errorf("password is required")
	}
	if err := s.passwordValidator.Validate(password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	passwordHash, err := security.HashSecret(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	answerHash, err := security.HashSecret(answer)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash security answer: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              email,
		PasswordHash:       passwordHash,
		SecurityQuestion:   input.SecurityQuestion,
		SecurityAnswerHash: answerHash,
		Role:               domain.RoleUser,
		Status:             domain.StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return domain.User{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			return domain.User{}, ErrEmailTaken
		default:
			return domain.User{}, fmt.Errorf("create user: %w", err)
		}
	}

	return user.Sanitized(), nil
}

// SecurityQuestions lists the prompts accounts may register with.
func (s *RegistrationService) SecurityQuestions() []domain.SecurityQuestion {
	return domain.SecurityQuestions()
}
