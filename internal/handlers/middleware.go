package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"insure-service/internal/config"
	"insure-service/internal/models"
	"insure-service/internal/repository"
	"insure-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	sessionKey      = "session"
)

// RequestID tags every request with an id, reusing the caller's header when
// present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger writes one slog line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", RequestIDFrom(c),
			"duration", time.Since(start))
	}
}

// SessionAuth admits requests carrying a session cookie that resolves to a
// stored session. When AllowedUsers is non-empty the session email must be on
// it (case-insensitive).
func SessionAuth(sessions repository.SessionRepository, cfg config.AuthConfig) gin.HandlerFunc {
	allowed := make([]string, 0, len(cfg.AllowedUsers))
	for _, u := range cfg.AllowedUsers {
		allowed = append(allowed, strings.ToLower(u))
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.SessionCookie)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(CodeUnauthorized, "session cookie required", RequestIDFrom(c)))
			return
		}

		session, err := sessions.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(CodeUnauthorized, "no session found or session expired", RequestIDFrom(c)))
				return
			}
			slog.Error("Session lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.NewErrorResponse(CodeInternal, "failed to check session", RequestIDFrom(c)))
			return
		}

		if len(allowed) > 0 && !slices.Contains(allowed, strings.ToLower(session.Email)) {
			slog.Warn("Rejected user outside allow list", "email", session.Email)
			c.AbortWithStatusJSON(http.StatusForbidden, utils.NewErrorResponse(CodeForbidden, "user is not allowed", RequestIDFrom(c)))
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (*models.UserSession, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*models.UserSession)
	return session, ok
}
