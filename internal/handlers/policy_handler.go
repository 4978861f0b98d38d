package handlers

import (
	"log/slog"
	"net/http"

	"insure-service/internal/models"
	"insure-service/internal/services"

	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	PolicyService services.IPolicyService
}

func NewPolicyHandler(policyService services.IPolicyService) *PolicyHandler {
	return &PolicyHandler{PolicyService: policyService}
}

func (h *PolicyHandler) RegisterRoutes(router gin.IRouter) {
	policies := router.Group("/policies")
	policies.GET("", h.ListPolicies)
	policies.POST("", h.CreatePolicy)
	policies.GET("/:id", h.GetPolicy)
	policies.PUT("/:id", h.UpdatePolicy)
}

func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	policies, err := h.PolicyService.ListPolicies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, policies)
}

func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	var req models.PolicyRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	id, err := h.PolicyService.CreatePolicy(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	// The policy is committed at this point; a failed read-back still
	// reports the new id.
	full, err := h.PolicyService.GetPolicy(c.Request.Context(), id)
	if err != nil {
		slog.Warn("Created policy could not be read back", "policy_id", id, "error", err)
		respondSuccess(c, http.StatusCreated, gin.H{"id": id})
		return
	}
	respondSuccess(c, http.StatusCreated, full)
}

func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	policy, err := h.PolicyService.GetPolicy(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, policy)
}

func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.PolicyRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	policy, err := h.PolicyService.UpdatePolicy(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, policy)
}
