package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/finance_ledger_app/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware records one event per successful write request. GET and HEAD are
// not tracked.
func PosthogMiddleware(tracker analytics.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if tracker == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		event := routeEventName(c.Request.Method, c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		for _, p := range c.Params {
			props[p.Key] = p.Value
		}
		tracker.Enqueue(userID, event, props)
	}
}

// routeEventName turns "POST /api/v1/statements/:uploadID/reconcile" into
// "post_statements_reconcile".
func routeEventName(method, route string) string {
	if route == "" {
		return ""
	}
	parts := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(strings.TrimPrefix(route, "/api/v1"), "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "_")
}

// PosthogEvent sends a domain event from a handler on behalf of the authenticated user.
func PosthogEvent(c *gin.Context, tracker analytics.Tracker, eventName string, properties map[string]any) {
	if tracker == nil {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	tracker.Enqueue(userID, eventName, properties)
}
