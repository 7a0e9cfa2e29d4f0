package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intercultura/sponte-dashboard/internal/response"
	"github.com/intercultura/sponte-dashboard/internal/service"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
	"github.com/intercultura/sponte-dashboard/internal/validator"
)

// StudentHandler serves the student listing.
type StudentHandler struct {
	catalog *service.CatalogService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(catalog *service.CatalogService) *StudentHandler {
	return &StudentHandler{catalog: catalog}
}

// ListStudentsQuery filters the student listing. The situation filter
// defaults to active; pass all=true to leave it off.
type ListStudentsQuery struct {
	Situacao *int `form:"situacao" binding:"omitempty,oneof=-1 -2 -3 -4 -5"`
	All      bool `form:"all"`
}

// ListStudents godoc
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var q ListStudentsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students := h.catalog.Students(c.Request.Context(), sponte.StudentParams{
		Situacao:   q.Situacao,
		NoSituacao: q.All,
	})

	response.Success(c, http.StatusOK, gin.H{
		"students": students,
		"total":    len(students),
	})
}
