package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/intercultura/sponte-dashboard/internal/model"
	"github.com/intercultura/sponte-dashboard/internal/response"
	"github.com/intercultura/sponte-dashboard/internal/service"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
	"github.com/intercultura/sponte-dashboard/internal/validator"
)

// FinanceHandler serves the receivable/payable listings and the financial
// reports.
type FinanceHandler struct {
	client  *sponte.Client
	finance *service.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(client *sponte.Client, finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{client: client, finance: finance}
}

// ListAccountsQuery filters receivable/payable listings. Situacao: -1 all,
// 0 pending, 1 paid. The amount bounds apply to receivables only.
type ListAccountsQuery struct {
	Situacao         *int     `form:"situacao" binding:"omitempty,oneof=-1 0 1"`
	VencimentoInicio string   `form:"vencimento_inicio" binding:"omitempty,max=10"`
	VencimentoFim    string   `form:"vencimento_fim" binding:"omitempty,max=10"`
	AlunoID          int      `form:"aluno_id" binding:"omitempty,min=0"`
	ValorMinimo      *float64 `form:"valor_minimo" binding:"omitempty,min=0"`
	ValorMaximo      *float64 `form:"valor_maximo" binding:"omitempty,min=0"`
}

// ListReceivables godoc
// GET /api/v1/receivables
func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	var q ListAccountsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inicio, ok := normalizeDate(q.VencimentoInicio)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}
	fim, ok := normalizeDate(q.VencimentoFim)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}

	rows := h.client.Receivables(c.Request.Context(), sponte.ReceivableParams{
		Situacao:             q.Situacao,
		AlunoID:              q.AlunoID,
		DataVencimentoInicio: inicio,
		DataVencimentoFim:    fim,
		ValorMinimo:          q.ValorMinimo,
		ValorMaximo:          q.ValorMaximo,
	})

	response.Success(c, http.StatusOK, gin.H{
		"receivables": rows,
		"total":       len(rows),
	})
}

// ListPayables godoc
// GET /api/v1/payables
func (h *FinanceHandler) ListPayables(c *gin.Context) {
	var q ListAccountsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inicio, ok := normalizeDate(q.VencimentoInicio)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}
	fim, ok := normalizeDate(q.VencimentoFim)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}

	rows := h.client.Payables(c.Request.Context(), sponte.PayableParams{
		Situacao:             q.Situacao,
		DataVencimentoInicio: inicio,
		DataVencimentoFim:    fim,
	})

	response.Success(c, http.StatusOK, gin.H{
		"payables": rows,
		"total":    len(rows),
	})
}

// ClassFinanceRequest carries the roster for a class financial summary.
// Roster entries may be bare ids or student records.
type ClassFinanceRequest struct {
	Alunos        []model.RosterEntry `json:"alunos" binding:"required"`
	PeriodoInicio string              `json:"periodo_inicio" binding:"omitempty,max=10"`
	PeriodoFim    string              `json:"periodo_fim" binding:"omitempty,max=10"`
}

// ClassFinance godoc
// POST /api/v1/classes/:id/finance
// Computes the paid/pending split for every student on the roster.
func (h *FinanceHandler) ClassFinance(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req ClassFinanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary := h.finance.ClassFinancialSummary(
		c.Request.Context(), classID, req.Alunos, req.PeriodoInicio, req.PeriodoFim)

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// MonthlySummaryQuery selects the month for the financial overview;
// defaults to the current month.
type MonthlySummaryQuery struct {
	Mes int `form:"mes" binding:"omitempty,min=1,max=12"`
	Ano int `form:"ano" binding:"omitempty,min=2000"`
}

// MonthlySummary godoc
// GET /api/v1/finance/summary
func (h *FinanceHandler) MonthlySummary(c *gin.Context) {
	var q MonthlySummaryQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	today := time.Now()
	if q.Mes == 0 {
		q.Mes = int(today.Month())
	}
	if q.Ano == 0 {
		q.Ano = today.Year()
	}

	summary, err := h.finance.MonthlySummary(c.Request.Context(), q.Ano, q.Mes)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// OverdueQuery filters the ageing report by minimum days late.
type OverdueQuery struct {
	DiasAtraso int `form:"dias_atraso" binding:"omitempty,min=0"`
}

// Overdue godoc
// GET /api/v1/finance/overdue
func (h *FinanceHandler) Overdue(c *gin.Context) {
	var q OverdueQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report := h.finance.Overdue(c.Request.Context(), q.DiasAtraso)
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// CashFlowQuery selects the range and grouping for the cash flow report.
type CashFlowQuery struct {
	Inicio      string `form:"inicio" binding:"required,max=10"`
	Fim         string `form:"fim" binding:"required,max=10"`
	Agrupamento string `form:"agrupamento" binding:"omitempty,oneof=dia semana mes"`
}

// CashFlow godoc
// GET /api/v1/finance/cashflow
func (h *FinanceHandler) CashFlow(c *gin.Context) {
	var q CashFlowQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Agrupamento == "" {
		q.Agrupamento = "dia"
	}

	start, ok := sponte.ParseInputDate(q.Inicio)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}
	end, ok := sponte.ParseInputDate(q.Fim)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return
	}

	rows, err := h.finance.CashFlow(c.Request.Context(), start, end, q.Agrupamento)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) || errors.Is(err, service.ErrInvalidGroupBy) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cashflow": rows})
}
