package handlers

import (
	"net/http"

	"insure-service/internal/services"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	AgentService services.IAgentService
}

func NewAgentHandler(agentService services.IAgentService) *AgentHandler {
	return &AgentHandler{AgentService: agentService}
}

func (h *AgentHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/agents", h.ListAgents)
}

func (h *AgentHandler) ListAgents(c *gin.Context) {
	agents, err := h.AgentService.ListAgents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, agents)
}
