package handlers

import (
	"net/http"

	"insure-service/internal/models"
	"insure-service/internal/services"

	"github.com/gin-gonic/gin"
)

type PersonHandler struct {
	PersonService services.IPersonService
}

func NewPersonHandler(personService services.IPersonService) *PersonHandler {
	return &PersonHandler{PersonService: personService}
}

func (h *PersonHandler) RegisterRoutes(router gin.IRouter) {
	people := router.Group("/people")
	people.GET("", h.ListPeople)
	people.POST("", h.CreatePerson)
	people.GET("/search", h.SearchPeople)
	people.GET("/:id", h.GetPerson)
	people.PUT("/:id", h.UpdatePerson)
}

func (h *PersonHandler) ListPeople(c *gin.Context) {
	people, err := h.PersonService.ListPeople(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, people)
}

func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var data models.PersonData
	if err := bindJSON(c, &data); err != nil {
		respondError(c, err)
		return
	}

	person, err := h.PersonService.CreatePerson(c.Request.Context(), &data)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, person)
}

func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	person, err := h.PersonService.GetPerson(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, person)
}

func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var data models.PersonData
	if err := bindJSON(c, &data); err != nil {
		respondError(c, err)
		return
	}

	person, err := h.PersonService.UpdatePerson(c.Request.Context(), id, &data)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, person)
}

func (h *PersonHandler) SearchPeople(c *gin.Context) {
	results, err := h.PersonService.SearchPeople(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, results)
}
