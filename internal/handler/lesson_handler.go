package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intercultura/sponte-dashboard/internal/response"
	"github.com/intercultura/sponte-dashboard/internal/service"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
	"github.com/intercultura/sponte-dashboard/internal/validator"
)

// LessonHandler serves the lesson listing.
type LessonHandler struct {
	catalog *service.CatalogService
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(catalog *service.CatalogService) *LessonHandler {
	return &LessonHandler{catalog: catalog}
}

// ListLessonsQuery filters the lesson listing. Dates accept dd/mm/yyyy or
// yyyy-mm-dd; id filters apply only when positive.
type ListLessonsQuery struct {
	Inicio      string `form:"inicio" binding:"omitempty,max=10"`
	Fim         string `form:"fim" binding:"omitempty,max=10"`
	Situacao    *int   `form:"situacao" binding:"omitempty,oneof=0 1"`
	AlunoID     int    `form:"aluno_id" binding:"omitempty,min=0"`
	TurmaID     int    `form:"turma_id" binding:"omitempty,min=0"`
	ProfessorID int    `form:"professor_id" binding:"omitempty,min=0"`
}

// ListLessons godoc
// GET /api/v1/lessons
func (h *LessonHandler) ListLessons(c *gin.Context) {
	var q ListLessonsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inicio, ok := normalizeDate(q.Inicio)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}
	fim, ok := normalizeDate(q.Fim)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}

	lessons := h.catalog.Lessons(c.Request.Context(), sponte.LessonParams{
		DataAulaInicio: inicio,
		DataAulaFim:    fim,
		Situacao:       q.Situacao,
		AlunoID:        q.AlunoID,
		TurmaID:        q.TurmaID,
		ProfessorID:    q.ProfessorID,
	})

	response.Success(c, http.StatusOK, gin.H{
		"lessons": lessons,
		"total":   len(lessons),
	})
}

// normalizeDate converts an optional operator-supplied date to the API
// form. Empty input passes through; malformed input reports false.
func normalizeDate(s string) (string, bool) {
	if s == "" {
		return "", true
	}
	t, ok := sponte.ParseInputDate(s)
	if !ok {
		return "", false
	}
	return sponte.FormatAPIDate(t), true
}
