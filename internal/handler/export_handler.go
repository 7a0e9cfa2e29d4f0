package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/intercultura/sponte-dashboard/internal/model"
	"github.com/intercultura/sponte-dashboard/internal/response"
	"github.com/intercultura/sponte-dashboard/internal/service"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
	"github.com/intercultura/sponte-dashboard/internal/validator"
)

// ExportHandler renders financial reports as XLSX downloads.
type ExportHandler struct {
	catalog *service.CatalogService
	finance *service.FinanceService
	log     zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(catalog *service.CatalogService, finance *service.FinanceService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		catalog: catalog,
		finance: finance,
		log:     log.With().Str("component", "export_handler").Logger(),
	}
}

// ClassFinanceExportQuery selects the billing period for the export.
type ClassFinanceExportQuery struct {
	PeriodoInicio string `form:"periodo_inicio" binding:"omitempty,max=10"`
	PeriodoFim    string `form:"periodo_fim" binding:"omitempty,max=10"`
}

// ClassFinanceXLSX godoc
// GET /api/v1/classes/:id/finance/export
// Builds the class financial summary spreadsheet. The roster is resolved
// from the class listing so the export link needs no request body.
func (h *ExportHandler) ClassFinanceXLSX(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var q ClassFinanceExportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, ok := h.findClass(c, classID)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	summary := h.finance.ClassFinancialSummary(
		c.Request.Context(), classID, class.Alunos, q.PeriodoInicio, q.PeriodoFim)

	f, err := buildClassFinanceSheet(class, summary)
	if err != nil {
		h.log.Error().Err(err).Int("turma_id", classID).Msg("failed to build spreadsheet")
		response.Fail(c, http.StatusInternalServerError, response.ErrExportFailed)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("financeiro_turma_%d.xlsx", classID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Int("turma_id", classID).Msg("failed to write spreadsheet")
	}
}

// findClass locates the class across open, closed, and forming listings.
func (h *ExportHandler) findClass(c *gin.Context, classID int) (model.Class, bool) {
	for _, situacao := range []int{model.ClassOpen, model.ClassForming, model.ClassClosed} {
		classes := h.catalog.Classes(c.Request.Context(), sponte.ClassParams{SituacaoTurma: situacao})
		for _, class := range classes {
			if class.TurmaID == classID {
				return class, true
			}
		}
	}
	return model.Class{}, false
}

func buildClassFinanceSheet(class model.Class, summary model.ClassFinanceSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Financeiro"

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	titles := []any{"Aluno", "ID", "Valor Pago", "Valor Pendente", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &[]any{fmt.Sprintf("Turma: %s", class.NomeTurma)}); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{fmt.Sprintf("Período: %s a %s", summary.PeriodoInicio, summary.PeriodoFim)}); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A4", &titles); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A4", "E4", header); err != nil {
		return nil, err
	}

	row := 5
	for _, d := range summary.Alunos {
		cell := fmt.Sprintf("A%d", row)
		values := []any{d.Nome, d.AlunoID, d.ValorPago, d.ValorPendente, d.Total()}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	totals := []any{"Total", "", summaryPaid(summary), summaryPending(summary), summary.ValorTotal}
	cell := fmt.Sprintf("A%d", row+1)
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, cell, fmt.Sprintf("E%d", row+1), header); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "E", 16); err != nil {
		return nil, err
	}

	return f, nil
}

func summaryPaid(summary model.ClassFinanceSummary) float64 {
	var total float64
	for _, d := range summary.Alunos {
		total += d.ValorPago
	}
	return total
}

func summaryPending(summary model.ClassFinanceSummary) float64 {
	var total float64
	for _, d := range summary.Alunos {
		total += d.ValorPendente
	}
	return total
}
