package handlers

import (
	"log/slog"
	"net/http"

	"insure-service/internal/config"
	"insure-service/internal/repository"
	"insure-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the signed-in user and logout. Sign-in itself happens in
// the external identity flow that writes the session.
type AuthHandler struct {
	sessions repository.SessionRepository
	cfg      config.AuthConfig
}

func NewAuthHandler(sessions repository.SessionRepository, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, cfg: cfg}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	auth.GET("/me", h.Me)
	auth.POST("/logout", h.Logout)
}

func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(CodeUnauthorized, "not signed in", RequestIDFrom(c)))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"email": session.Email, "name": session.Name})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(h.cfg.SessionCookie)
	if err == nil && sessionID != "" {
		if err := h.sessions.DeleteSession(c.Request.Context(), sessionID); err != nil {
			slog.Warn("Failed to delete session on logout", "error", err)
		}
	}
	c.SetCookie(h.cfg.SessionCookie, "", -1, "/", "", true, true)
	respondSuccess(c, http.StatusOK, nil)
}
