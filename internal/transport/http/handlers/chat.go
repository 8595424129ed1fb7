package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rylimitless/electrolytes/internal/transport/http/middleware"
	"github.com/rylimitless/electrolytes/internal/usecase"
)

// ChatHandler exposes the conversation endpoints.
type ChatHandler struct {
	chat *usecase.ChatService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *usecase.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes binds the chat routes.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/message", h.sendMessage)
	r.GET("/history/:session_id", h.history)
	r.GET("/sessions", h.listSessions)
	r.DELETE("/session/:session_id", h.deleteSession)
}

func (h *ChatHandler) sendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid message payload"))
		return
	}

	userID := middleware.CurrentUsername(c)

	result, err := h.chat.SendMessage(c.Request.Context(), userID, req.SessionID, req.Message)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "message delivery failed")
		return
	}

	c.JSON(http.StatusOK, SendMessageResponse{
		SessionID:  result.SessionID,
		Reply:      result.Reply,
		Processing: result.Processing,
	})
}

func (h *ChatHandler) history(c *gin.Context) {
	sessionID := c.Param("session_id")
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	history, err := h.chat.GetHistory(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "history lookup failed")
		return
	}

	messages := make([]ChatMessageView, 0, len(history.Messages))
	for _, msg := range history.Messages {
		messages = append(messages, newChatMessageView(msg))
	}

	c.JSON(http.StatusOK, HistoryResponse{
		SessionID: history.SessionID,
		Messages:  messages,
		Total:     history.Total,
	})
}

func (h *ChatHandler) listSessions(c *gin.Context) {
	userID := middleware.CurrentUsername(c)
	limit := queryInt(c, "limit", 0)

	sessions, err := h.chat.ListSessions(c.Request.Context(), userID, limit)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "session listing failed")
		return
	}

	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, SessionView{
			SessionID:    s.SessionID,
			LastMessage:  s.LastMessage,
			LastActivity: s.LastActivity,
			MessageCount: s.MessageCount,
		})
	}

	c.JSON(http.StatusOK, SessionListResponse{Sessions: views})
}

func (h *ChatHandler) deleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	deleted, err := h.chat.DeleteSession(c.Request.Context(), sessionID)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "session delete failed")
		return
	}

	c.JSON(http.StatusOK, DeleteSessionResponse{SessionID: sessionID, Deleted: deleted})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
