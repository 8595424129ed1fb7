package domain

import "time"

// MessageRole identifies which side of a conversation produced a message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// MetadataInReplyTo is the metadata key linking an assistant reply to the
// inbound message that triggered it.
const MetadataInReplyTo = "in_reply_to"

// ChatMessage is one side of a relayed exchange. Messages are append-only:
// they are never mutated and are removed only by bulk session deletion.
type ChatMessage struct {
	MessageID      string
	SessionID      string
	ConversationID string
	UserID         string
	Content        string
	Role           MessageRole
	Timestamp      time.Time
	Metadata       map[string]any
}

// SessionSummary aggregates a conversation for session listings.
type SessionSummary struct {
	SessionID    string
	LastMessage  string
	LastActivity time.Time
	MessageCount int
}
