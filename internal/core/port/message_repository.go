package port

import (
	"context"

	"github.com/rylimitless/electrolytes/internal/core/domain"
)

// MessageRepository exposes persistence behavior for chat messages.
type MessageRepository interface {
	Insert(ctx context.Context, msg domain.ChatMessage) error
	// ListBySession returns messages ordered by timestamp ascending.
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.ChatMessage, error)
	// CountBySession returns the session total independent of pagination.
	CountBySession(ctx context.Context, sessionID string) (int, error)
	// ListSessions returns summaries ordered by last activity descending.
	// An empty userID lists sessions for all users.
	ListSessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error)
	// DeleteSession removes every message for the session and reports how
	// many rows were deleted. Deleting an unknown session is not an error.
	DeleteSession(ctx context.Context, sessionID string) (int64, error)
}
