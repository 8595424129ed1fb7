package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rylimitless/electrolytes/internal/core/domain"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	getByUsernameResult *domain.User
	getByUsernameErr    error
	getByUsernameCalls  int
	getByUsernameLast   string

	updatePasswordErr   error
	updatePasswordCalls int
	updatePasswordUser  string
	updatePasswordHash  string

	updateLastLoginErr   error
	updateLastLoginCalls int
	updateLastLoginUser  string
	updateLastLoginAt    time.Time
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.getByUsernameCalls++
	m.getByUsernameLast = username
	if m.getByUsernameResult != nil {
		copy := *m.getByUsernameResult
		return &copy, m.getByUsernameErr
	}
	return nil, m.getByUsernameErr
}

func (m *mockUserRepository) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("unexpected call: GetByEmail")
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, username, passwordHash string, _ time.Time) error {
	m.updatePasswordCalls++
	m.updatePasswordUser = username
	m.updatePasswordHash = passwordHash
	return m.updatePasswordErr
}

func (m *mockUserRepository) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	m.updateLastLoginCalls++
	m.updateLastLoginUser = username
	m.updateLastLoginAt = at
	return m.updateLastLoginErr
}
