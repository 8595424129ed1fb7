package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/core/port"
	"github.com/rylimitless/electrolytes/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	defaultSessionLimit = 100

	// processingReply is returned when the automation upstream cannot be
	// reached; the user message is already persisted at that point.
	processingReply = "Your message was received and is being processed."
)

// ChatService persists conversation turns and relays them to the automation upstream.
type ChatService struct {
	messages port.MessageRepository
	relay    port.RelayClient
	logger   *zap.Logger
	now      func() time.Time
}

// NewChatService constructs a ChatService.
func NewChatService(messages port.MessageRepository, relay port.RelayClient, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		messages: messages,
		relay:    relay,
		logger:   logger,
		now:      time.Now,
	}
}

// SendResult reports the outcome of a conversation turn.
type SendResult struct {
	SessionID string
	Reply     string
	// Processing is set when the upstream was unreachable and Reply holds
	// the fallback acknowledgement instead of an assistant answer.
	Processing bool
	UserMsg    domain.ChatMessage
	AssistMsg  *domain.ChatMessage
}

// SendMessage stores the user's message, forwards it upstream, and stores the
// reply. The inbound message is persisted before the relay call so a dead
// upstream never loses user input.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID, text string) (*SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := s.now().UTC()
	userMsg := domain.ChatMessage{
		MessageID:      uuid.NewString(),
		SessionID:      sessionID,
		ConversationID: sessionID,
		UserID:         userID,
		Content:        text,
		Role:           domain.MessageRoleUser,
		Timestamp:      now,
	}

	if err := s.messages.Insert(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	reply, err := s.relay.Send(ctx, port.RelayMessage{
		SessionID: sessionID,
		UserID:    userID,
		Text:      text,
		Timestamp: now,
	})
	if err != nil {
		s.logger.Warn("relay send failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return &SendResult{
			SessionID:  sessionID,
			Reply:      processingReply,
			Processing: true,
			UserMsg:    userMsg,
		}, nil
	}

	assistMsg := domain.ChatMessage{
		MessageID:      uuid.NewString(),
		SessionID:      sessionID,
		ConversationID: sessionID,
		UserID:         userID,
		Content:        reply,
		Role:           domain.MessageRoleAssistant,
		Timestamp:      s.now().UTC(),
		Metadata:       map[string]any{domain.MetadataInReplyTo: userMsg.MessageID},
	}

	if err := s.messages.Insert(ctx, assistMsg); err != nil {
		// The reply is still returned to the caller.
		s.logger.Warn("store assistant message failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	return &SendResult{
		SessionID: sessionID,
		Reply:     reply,
		UserMsg:   userMsg,
		AssistMsg: &assistMsg,
	}, nil
}

// History carries one page of a session transcript.
type History struct {
	SessionID string
	Messages  []domain.ChatMessage
	Total     int
}

// GetHistory returns session messages in chronological order.
func (s *ChatService) GetHistory(ctx context.Context, sessionID string, limit, offset int) (*History, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.messages.ListBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list session messages: %w", err)
	}

	total, err := s.messages.CountBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count session messages: %w", err)
	}

	return &History{SessionID: sessionID, Messages: msgs, Total: total}, nil
}

// ListSessions returns the caller's sessions ordered by most recent activity.
func (s *ChatService) ListSessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	sessions, err := s.messages.ListSessions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes every message in the session. The operation is
// idempotent: deleting a session with no stored messages succeeds and
// reports zero deleted rows.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, fmt.Errorf("session id is required")
	}

	deleted, err := s.messages.DeleteSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("delete session: %w", err)
	}

	return deleted, nil
}
