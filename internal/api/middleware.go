package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/platform/logger"
	"alcyxob/painrelief/internal/service"
)

// Constants for context keys
const (
	ContextSessionIDKey = "sessionID"
)

// SessionMiddleware requires a valid "Authorization: Bearer <token>"
// session token and stores the session id in the context.
func SessionMiddleware(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		session, err := sessions.Verify(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(ContextSessionIDKey, session.ID.String())
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if id, ok := c.Get(ContextSessionIDKey); ok {
			fields = append(fields, "session_id", id)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the session id from context (used by handlers)
func getSessionIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextSessionIDKey)
	if !exists {
		return "", errors.New("session ID not found in context")
	}
	id, ok := idRaw.(string)
	if !ok || id == "" {
		return "", errors.New("invalid session ID type in context")
	}
	return id, nil
}
