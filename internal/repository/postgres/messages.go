package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/core/port"
)

// MessageRepository implements port.MessageRepository using PostgreSQL.
type MessageRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMessageRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewMessageRepository(exec pgExecutor) *MessageRepository {
	repo := &MessageRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

var messageColumns = []string{
	"message_id",
	"session_id",
	"user_id",
	"conversation_id",
	"message_content",
	"message_type",
	`"timestamp"`,
	"metadata",
}

// Insert persists a single chat message. Messages are immutable once written.
func (r *MessageRepository) Insert(ctx context.Context, msg domain.ChatMessage) error {
	var metadataValue any
	if len(msg.Metadata) > 0 {
		encoded, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("encode message metadata: %w", err)
		}
		metadataValue = encoded
	}

	var userValue any
	if msg.UserID != "" {
		userValue = msg.UserID
	}

	stmt, args, err := r.builder.Insert("chat_messages").
		Columns(messageColumns...).
		Values(
			msg.MessageID,
			msg.SessionID,
			userValue,
			msg.ConversationID,
			msg.Content,
			msg.Role,
			msg.Timestamp,
			metadataValue,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert message sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return classifyErr("insert message", err)
	}

	return nil
}

// ListBySession returns a pagination window of a session's messages ordered
// by timestamp ascending.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.ChatMessage, error) {
	query := r.builder.Select(messageColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy(`"timestamp" ASC`)

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, classifyErr("query messages", err)
	}
	defer rows.Close()

	messages := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var (
			msg      domain.ChatMessage
			userID   sql.NullString
			role     string
			metadata []byte
		)

		if err := rows.Scan(
			&msg.MessageID,
			&msg.SessionID,
			&userID,
			&msg.ConversationID,
			&msg.Content,
			&role,
			&msg.Timestamp,
			&metadata,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		if userID.Valid {
			msg.UserID = userID.String
		}
		msg.Role = domain.MessageRole(role)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &msg.Metadata); err != nil {
				return nil, fmt.Errorf("decode message metadata: %w", err)
			}
		}

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// CountBySession returns the total message count for a session regardless of
// any pagination window.
func (r *MessageRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count messages sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, classifyErr("scan message count", err)
	}

	return int(count), nil
}

// ListSessions groups messages by session and returns the most recently
// active sessions first, each with its last message and total count.
func (r *MessageRepository) ListSessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	stmt := `
		SELECT session_id, message_content, "timestamp", message_count
		  FROM (
			SELECT DISTINCT ON (session_id)
			       session_id,
			       message_content,
			       "timestamp",
			       COUNT(*) OVER (PARTITION BY session_id) AS message_count
			  FROM chat_messages
			 WHERE ($1 = '' OR user_id = $1)
			 ORDER BY session_id, "timestamp" DESC
		  ) latest
		 ORDER BY "timestamp" DESC
		 LIMIT $2
	`

	rows, err := r.exec.Query(ctx, stmt, userID, limit)
	if err != nil {
		return nil, classifyErr("query sessions", err)
	}
	defer rows.Close()

	summaries := make([]domain.SessionSummary, 0)
	for rows.Next() {
		var (
			summary domain.SessionSummary
			count   int64
		)
		if err := rows.Scan(&summary.SessionID, &summary.LastMessage, &summary.LastActivity, &count); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		summary.MessageCount = int(count)
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session summaries: %w", err)
	}

	return summaries, nil
}

// DeleteSession removes every message in the session. Unknown sessions
// delete zero rows and succeed.
func (r *MessageRepository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	stmt, args, err := r.builder.Delete("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete session sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, classifyErr("delete session", err)
	}

	return ct.RowsAffected(), nil
}

var _ port.MessageRepository = (*MessageRepository)(nil)
