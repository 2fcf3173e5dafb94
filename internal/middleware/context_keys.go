package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	userIDKey    = contextKey("userID")
	loggerCtxKey = contextKey("ctx_logger")
)

// WithUserID returns a copy of ctx carrying the acting user or module id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the acting user id stored by AuthMiddleware or WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserIDFromContext retrieves the authenticated user ID of a gin request.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return UserIDFromContext(c.Request.Context())
}
