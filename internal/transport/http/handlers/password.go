package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rylimitless/electrolytes/internal/usecase"
)

// PasswordHandler exposes security-question based account recovery.
type PasswordHandler struct {
	reset *usecase.PasswordResetService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(reset *usecase.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{reset: reset}
}

// RegisterRoutes binds the recovery routes.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/verify-security-question", h.verifyAnswer)
	r.POST("/reset-password", h.resetPassword)
}

func (h *PasswordHandler) verifyAnswer(c *gin.Context) {
	var req VerifyAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid verification payload"))
		return
	}

	err := h.reset.VerifySecurityAnswer(c.Request.Context(), req.Username, req.SecurityAnswer)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrInvalidSecurityAnswer, Status: http.StatusUnauthorized, Message: "security answer does not match"},
		}, http.StatusInternalServerError, "verification failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (h *PasswordHandler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset payload"))
		return
	}

	err := h.reset.ResetPassword(c.Request.Context(), req.Username, req.SecurityAnswer, req.NewPassword)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrInvalidSecurityAnswer, Status: http.StatusUnauthorized, Message: "security answer does not match"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet complexity requirements"},
		}, http.StatusInternalServerError, "password reset failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
