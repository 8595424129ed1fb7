package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rylimitless/electrolytes/internal/core/domain"
)

// ErrorResponse represents a generic error payload with the request ID for debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: c.GetString("request_id"),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes the public view of an account returned by the API.
type UserSummary struct {
	ID        string               `json:"id"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	Role      domain.Role          `json:"role"`
	Status    domain.AccountStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	LastLogin *time.Time           `json:"last_login,omitempty"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

// RegisterRequest defines the payload for account creation.
type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email"`
	Password         string `json:"password" binding:"required"`
	SecurityQuestion string `json:"security_question" binding:"required"`
	SecurityAnswer   string `json:"security_answer" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token and the account it belongs to.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

// VerifyAnswerRequest defines the payload for the security answer check.
type VerifyAnswerRequest struct {
	Username       string `json:"username" binding:"required"`
	SecurityAnswer string `json:"security_answer" binding:"required"`
}

// ResetPasswordRequest defines the payload for a security-question password reset.
type ResetPasswordRequest struct {
	Username       string `json:"username" binding:"required"`
	SecurityAnswer string `json:"security_answer" binding:"required"`
	NewPassword    string `json:"new_password" binding:"required"`
}

// SendMessageRequest defines the payload for a conversation turn.
type SendMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// SendMessageResponse carries the assistant reply for a conversation turn.
type SendMessageResponse struct {
	SessionID  string `json:"session_id"`
	Reply      string `json:"reply"`
	Processing bool   `json:"processing,omitempty"`
}

// ChatMessageView is the transcript representation of a stored message.
type ChatMessageView struct {
	MessageID string         `json:"message_id"`
	SessionID string         `json:"session_id"`
	Content   string         `json:"content"`
	Role      string         `json:"role"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func newChatMessageView(msg domain.ChatMessage) ChatMessageView {
	return ChatMessageView{
		MessageID: msg.MessageID,
		SessionID: msg.SessionID,
		Content:   msg.Content,
		Role:      string(msg.Role),
		Timestamp: msg.Timestamp,
		Metadata:  msg.Metadata,
	}
}

// HistoryResponse carries one page of a session transcript.
type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []ChatMessageView `json:"messages"`
	Total     int               `json:"total"`
}

// SessionView summarises a conversation for the session listing.
type SessionView struct {
	SessionID    string    `json:"session_id"`
	LastMessage  string    `json:"last_message"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// SessionListResponse carries the caller's sessions.
type SessionListResponse struct {
	Sessions []SessionView `json:"sessions"`
}

// DeleteSessionResponse reports the result of a bulk session delete.
type DeleteSessionResponse struct {
	SessionID string `json:"session_id"`
	Deleted   int64  `json:"deleted"`
}

// ImageView describes a stored image.
type ImageView struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	URL      string    `json:"url"`
}

func newImageView(info domain.ImageInfo) ImageView {
	return ImageView{
		Filename: info.Filename,
		Size:     info.Size,
		Modified: info.Modified,
		URL:      info.URL,
	}
}

// ImageListResponse carries every stored image.
type ImageListResponse struct {
	Images []ImageView `json:"images"`
	Count  int         `json:"count"`
}
