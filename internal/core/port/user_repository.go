package port

import (
	"context"
	"time"

	"github.com/rylimitless/electrolytes/internal/core/domain"
)

// UserRepository exposes persistence behavior for users. Create relies on
// store-level unique constraints for username and email so concurrent
// registrations cannot both succeed.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, username string, passwordHash string, changedAt time.Time) error
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
}
