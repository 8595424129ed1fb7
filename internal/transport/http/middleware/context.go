package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rylimitless/electrolytes/internal/core/domain"
)

const (
	// UsernameKey is the context key for the authenticated username.
	UsernameKey = "username"
	// UserKey is the context key for the authenticated account.
	UserKey = "user"
)

// CurrentUser retrieves the authenticated account placed in the context by
// RequireAuth. The second return is false on unauthenticated routes.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, exists := c.Get(UserKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// CurrentUsername retrieves the authenticated username from the context.
func CurrentUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
