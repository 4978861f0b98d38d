package handlers

import (
	"net/http"

	"insure-service/internal/models"
	"insure-service/internal/services"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	VehicleService services.IVehicleService
}

func NewVehicleHandler(vehicleService services.IVehicleService) *VehicleHandler {
	return &VehicleHandler{VehicleService: vehicleService}
}

func (h *VehicleHandler) RegisterRoutes(router gin.IRouter) {
	vehicles := router.Group("/vehicles")
	vehicles.POST("", h.CreateVehicle)
	vehicles.GET("/search", h.SearchVehicles)
	vehicles.GET("/:id", h.GetVehicle)
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var data models.VehicleData
	if err := bindJSON(c, &data); err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := h.VehicleService.CreateVehicle(c.Request.Context(), &data)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := h.VehicleService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, vehicle)
}

func (h *VehicleHandler) SearchVehicles(c *gin.Context) {
	results, err := h.VehicleService.SearchVehicles(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, results)
}
