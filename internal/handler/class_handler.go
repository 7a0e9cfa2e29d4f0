package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intercultura/sponte-dashboard/internal/model"
	"github.com/intercultura/sponte-dashboard/internal/response"
	"github.com/intercultura/sponte-dashboard/internal/service"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
	"github.com/intercultura/sponte-dashboard/internal/validator"
)

// ClassHandler serves the class listing and its filter facets.
type ClassHandler struct {
	catalog *service.CatalogService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(catalog *service.CatalogService) *ClassHandler {
	return &ClassHandler{catalog: catalog}
}

// ListClassesQuery filters the class listing.
type ListClassesQuery struct {
	SituacaoTurma int    `form:"situacao_turma" binding:"omitempty,oneof=1 2 3"`
	IdiomaID      int    `form:"idioma_id" binding:"omitempty,min=0"`
	EstagioID     int    `form:"estagio_id" binding:"omitempty,min=0"`
	Modalidade    string `form:"modalidade" binding:"omitempty,max=100"`
}

// ListClasses godoc
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	var q ListClassesQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.SituacaoTurma == 0 {
		q.SituacaoTurma = model.ClassOpen
	}

	classes := h.catalog.Classes(c.Request.Context(), sponte.ClassParams{
		SituacaoTurma: q.SituacaoTurma,
		IdiomaID:      q.IdiomaID,
		EstagioID:     q.EstagioID,
		Modalidade:    q.Modalidade,
	})

	response.Success(c, http.StatusOK, gin.H{
		"classes": classes,
		"total":   len(classes),
	})
}

// GetFacets godoc
// GET /api/v1/classes/facets
// Returns the distinct filter values the sidebar offers.
func (h *ClassHandler) GetFacets(c *gin.Context) {
	facets := h.catalog.Facets(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"facets": facets})
}
