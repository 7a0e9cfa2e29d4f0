package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/intercultura/sponte-dashboard/internal/cache"
	"github.com/intercultura/sponte-dashboard/internal/config"
	"github.com/intercultura/sponte-dashboard/internal/model"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
)

// Validation errors surfaced to the handlers.
var (
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrInvalidYear    = errors.New("year must be 2000 or later")
	ErrInvalidRange   = errors.New("start date must not be after end date")
	ErrInvalidGroupBy = errors.New("group must be one of dia, semana, mes")
)

// Estimated late interest: 1% per month, accrued daily.
const dailyInterestRate = 0.01 / 30

// FinanceService owns the financial aggregations: per-class roster totals,
// the monthly overview, the overdue ageing report and the cash flow report.
type FinanceService struct {
	client  *sponte.Client
	catalog *CatalogService
	store   cache.Store
	ttl     time.Duration
	fanout  int
	log     zerolog.Logger

	// now is stubbed in tests.
	now func() time.Time
}

// NewFinanceService creates a new FinanceService. fanout caps the number of
// simultaneous in-flight per-student requests.
func NewFinanceService(
	client *sponte.Client,
	catalog *CatalogService,
	store cache.Store,
	ttl time.Duration,
	fanout int,
	log zerolog.Logger,
) *FinanceService {
	if fanout < 1 {
		fanout = 1
	}
	return &FinanceService{
		client:  client,
		catalog: catalog,
		store:   store,
		ttl:     ttl,
		fanout:  fanout,
		log:     log.With().Str("component", "finance_service").Logger(),
		now:     time.Now,
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Class financial summary
// ────────────────────────────────────────────────────────────────────────────

// ClassFinancialSummary computes the paid/pending split for every student
// on a class roster over a billing period. An empty or all-invalid roster
// yields a zero summary without touching the upstream API. The period
// defaults to the current month when either bound is missing.
func (s *FinanceService) ClassFinancialSummary(
	ctx context.Context,
	classID int,
	roster []model.RosterEntry,
	periodStart, periodEnd string,
) model.ClassFinanceSummary {
	start, end := s.resolvePeriod(periodStart, periodEnd)

	summary := model.ClassFinanceSummary{
		TurmaID:       classID,
		PeriodoInicio: start,
		PeriodoFim:    end,
		Alunos:        []model.FinanceDetail{},
	}

	ids := model.UniqueStudentIDs(roster)
	if len(ids) == 0 {
		return summary
	}

	key := config.CacheKey.ClassFinanceKey(classID, ids, start, end)
	return cache.Memoize(ctx, s.store, key, s.ttl, func() model.ClassFinanceSummary {
		summary.Alunos = s.collectStudentDetails(ctx, ids, start, end)
		for _, d := range summary.Alunos {
			summary.ValorTotal += d.Total()
		}
		return summary
	})
}

// collectStudentDetails fans out the per-student receivable lookups with a
// bounded number of in-flight requests. Output order follows roster order;
// a student whose lookups fail contributes zero totals rather than an error.
func (s *FinanceService) collectStudentDetails(ctx context.Context, ids []int, start, end string) []model.FinanceDetail {
	names := s.catalog.StudentNames(ctx)

	details := make([]model.FinanceDetail, len(ids))
	sem := make(chan struct{}, s.fanout)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			details[i] = model.FinanceDetail{
				AlunoID:       id,
				Nome:          s.studentName(names, id),
				ValorPago:     s.sumReceivables(ctx, id, model.AccountPaid, start, end),
				ValorPendente: s.sumReceivables(ctx, id, model.AccountPending, start, end),
			}
		}(i, id)
	}
	wg.Wait()

	return details
}

// sumReceivables totals the installment amounts of a student's receivables
// in one situation over the period.
func (s *FinanceService) sumReceivables(ctx context.Context, studentID, situacao int, start, end string) float64 {
	rows := s.client.Receivables(ctx, sponte.ReceivableParams{
		Situacao:             sponte.IntPtr(situacao),
		AlunoID:              studentID,
		DataVencimentoInicio: start,
		DataVencimentoFim:    end,
	})

	var total float64
	for _, r := range rows {
		total += r.InstallmentTotal()
	}
	return total
}

func (s *FinanceService) studentName(names map[int]string, id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("Aluno %d", id)
}

// resolvePeriod normalizes the period bounds, defaulting to the current
// month. Inputs accept dayfirst or ISO dates.
func (s *FinanceService) resolvePeriod(periodStart, periodEnd string) (string, string) {
	today := s.now()
	monthStart, monthEnd := sponte.MonthRange(today.Year(), today.Month())

	start := monthStart
	if t, ok := sponte.ParseInputDate(periodStart); ok {
		start = t
	}
	end := monthEnd
	if t, ok := sponte.ParseInputDate(periodEnd); ok {
		end = t
	}
	return sponte.FormatAPIDate(start), sponte.FormatAPIDate(end)
}

// ────────────────────────────────────────────────────────────────────────────
// Monthly summary
// ────────────────────────────────────────────────────────────────────────────

// MonthlySummary builds the month-level financial overview: received vs
// expected totals, pending and overdue amounts, and the derived rates.
func (s *FinanceService) MonthlySummary(ctx context.Context, year, month int) (model.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return model.MonthlySummary{}, ErrInvalidMonth
	}
	if year < 2000 {
		return model.MonthlySummary{}, ErrInvalidYear
	}

	key := config.CacheKey.FinanceSummaryKey(year, month)
	return cache.Memoize(ctx, s.store, key, s.ttl, func() model.MonthlySummary {
		return s.buildMonthlySummary(ctx, year, month)
	}), nil
}

func (s *FinanceService) buildMonthlySummary(ctx context.Context, year, month int) model.MonthlySummary {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	start := sponte.FormatAPIDate(monthStart)
	end := sponte.FormatAPIDate(nextMonth)

	// Received in the month: paid receivables by payment date.
	paid := s.client.Receivables(ctx, sponte.ReceivableParams{
		Situacao:            sponte.IntPtr(model.AccountPaid),
		DataPagamentoInicio: start,
		DataPagamentoFim:    end,
	})
	var totalRecebido float64
	for _, r := range paid {
		if v, ok := r.Valor.Value(); ok {
			totalRecebido += v
		}
	}

	// Overdue across all open receivables.
	overdue := s.overdueInstallments(ctx, 0)
	var totalVencido, totalVencidoMes float64
	monthPrefix := fmt.Sprintf("%04d-%02d", year, month)
	for _, p := range overdue {
		totalVencido += p.Valor
		if len(p.DataVencimento) >= 7 && p.DataVencimento[:7] == monthPrefix {
			totalVencidoMes += p.Valor
		}
	}

	// Expected and still-pending totals for the month, by due date.
	monthRows := s.client.Receivables(ctx, sponte.ReceivableParams{
		DataVencimentoInicio: start,
		DataVencimentoFim:    end,
	})
	var totalPrevisto, totalPendente float64
	for _, r := range monthRows {
		v, ok := r.Valor.Value()
		if !ok {
			continue
		}
		totalPrevisto += v
		if r.Situacao != nil && *r.Situacao == model.AccountPending {
			totalPendente += v
		}
	}

	var taxaInadimplencia, taxaRecebimento float64
	if totalPrevisto > 0 {
		taxaInadimplencia = totalVencido / totalPrevisto * 100
		taxaRecebimento = totalRecebido / totalPrevisto * 100
	}

	return model.MonthlySummary{
		Periodo:           fmt.Sprintf("%02d/%04d", month, year),
		TotalRecebido:     round2(totalRecebido),
		TotalPrevisto:     round2(totalPrevisto),
		TotalPendente:     round2(totalPendente),
		TotalVencido:      round2(totalVencido),
		TotalVencidoMes:   round2(totalVencidoMes),
		ParcelasVencidas:  len(overdue),
		TaxaInadimplencia: round2(taxaInadimplencia),
		TaxaRecebimento:   round2(taxaRecebimento),
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Overdue ageing report
// ────────────────────────────────────────────────────────────────────────────

var overdueBuckets = []struct {
	label   string
	minDays int
	maxDays int // 0 = unbounded
}{
	{"ate_15_dias", 0, 15},
	{"16_30_dias", 16, 30},
	{"31_60_dias", 31, 60},
	{"61_90_dias", 61, 90},
	{"acima_90_dias", 91, 0},
}

// Overdue builds the ageing report for pending receivables at least
// minDaysLate days past due.
func (s *FinanceService) Overdue(ctx context.Context, minDaysLate int) model.OverdueReport {
	key := config.CacheKey.OverdueKey(minDaysLate)
	return cache.Memoize(ctx, s.store, key, s.ttl, func() model.OverdueReport {
		return s.buildOverdueReport(ctx, minDaysLate)
	})
}

func (s *FinanceService) buildOverdueReport(ctx context.Context, minDaysLate int) model.OverdueReport {
	installments := s.overdueInstallments(ctx, minDaysLate)

	report := model.OverdueReport{Faixas: make([]model.OverdueBucket, len(overdueBuckets))}
	for i, b := range overdueBuckets {
		report.Faixas[i] = model.OverdueBucket{Faixa: b.label, Parcelas: []model.OverdueInstallment{}}
	}

	for _, p := range installments {
		report.TotalParcelas++
		report.ValorTotal += p.Valor
		report.ValorAtualizado += p.ValorAtualizado

		for i, b := range overdueBuckets {
			if p.DiasAtraso < b.minDays {
				continue
			}
			if b.maxDays > 0 && p.DiasAtraso > b.maxDays {
				continue
			}
			bucket := &report.Faixas[i]
			bucket.Quantidade++
			bucket.ValorTotal = round2(bucket.ValorTotal + p.Valor)
			bucket.ValorAtualizado = round2(bucket.ValorAtualizado + p.ValorAtualizado)
			bucket.Parcelas = append(bucket.Parcelas, p)
			break
		}
	}

	report.ValorTotal = round2(report.ValorTotal)
	report.ValorAtualizado = round2(report.ValorAtualizado)
	return report
}

// overdueInstallments lists pending receivables past due, most-late first.
// Rows without a positive amount or a parseable due date are skipped.
func (s *FinanceService) overdueInstallments(ctx context.Context, minDaysLate int) []model.OverdueInstallment {
	rows := s.client.Receivables(ctx, sponte.ReceivableParams{
		Situacao: sponte.IntPtr(model.AccountPending),
	})

	now := s.now()
	out := make([]model.OverdueInstallment, 0, len(rows))
	for _, r := range rows {
		valor, ok := r.Valor.Value()
		if !ok || valor <= 0 {
			continue
		}
		due, ok := sponte.ParseAPIDate(r.DataVencimento)
		if !ok || !due.Before(now) {
			continue
		}

		daysLate := int(now.Sub(due).Hours() / 24)
		if daysLate < minDaysLate {
			continue
		}

		juros := round2(valor * dailyInterestRate * float64(daysLate))
		out = append(out, model.OverdueInstallment{
			ContaReceberID:       r.ContaReceberID,
			AlunoID:              r.AlunoID,
			PlanoContasDescricao: r.PlanoContasDescricao,
			Valor:                valor,
			DataVencimento:       r.DataVencimento,
			DiasAtraso:           daysLate,
			JurosEstimados:       juros,
			ValorAtualizado:      round2(valor + juros),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DiasAtraso > out[j].DiasAtraso })
	return out
}

// ────────────────────────────────────────────────────────────────────────────
// Cash flow
// ────────────────────────────────────────────────────────────────────────────

// CashFlow builds the receivables-vs-payables report for a date range,
// grouped by dia, semana or mes.
func (s *FinanceService) CashFlow(ctx context.Context, start, end time.Time, groupBy string) ([]model.CashFlowRow, error) {
	switch groupBy {
	case "dia", "semana", "mes":
	default:
		return nil, ErrInvalidGroupBy
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	key := config.CacheKey.CashFlowKey(sponte.FormatAPIDate(start), sponte.FormatAPIDate(end), groupBy)
	return cache.Memoize(ctx, s.store, key, s.ttl, func() []model.CashFlowRow {
		return s.buildCashFlow(ctx, start, end, groupBy)
	}), nil
}

func (s *FinanceService) buildCashFlow(ctx context.Context, start, end time.Time, groupBy string) []model.CashFlowRow {
	startStr := sponte.FormatAPIDate(start)
	endStr := sponte.FormatAPIDate(end)

	receivables := s.client.Receivables(ctx, sponte.ReceivableParams{
		DataVencimentoInicio: startStr,
		DataVencimentoFim:    endStr,
	})
	payables := s.client.Payables(ctx, sponte.PayableParams{
		DataVencimentoInicio: startStr,
		DataVencimentoFim:    endStr,
	})

	type bucket struct {
		receitas float64
		despesas float64
	}
	days := map[string]*bucket{}
	dayBucket := func(due string) *bucket {
		t, ok := sponte.ParseAPIDate(due)
		if !ok || t.Before(start) || t.After(end.AddDate(0, 0, 1)) {
			return nil
		}
		k := sponte.FormatAPIDate(t)
		if days[k] == nil {
			days[k] = &bucket{}
		}
		return days[k]
	}

	for _, r := range receivables {
		if v, ok := r.Valor.Value(); ok {
			if b := dayBucket(r.DataVencimento); b != nil {
				b.receitas += v
			}
		}
	}
	for _, p := range payables {
		if v, ok := p.Valor.Value(); ok {
			if b := dayBucket(p.DataVencimento); b != nil {
				b.despesas += v
			}
		}
	}

	// One row per period across the whole range, empty days included.
	rows := []model.CashFlowRow{}
	groupKey := func(t time.Time) string {
		switch groupBy {
		case "semana":
			year, week := t.ISOWeek()
			return fmt.Sprintf("Semana %d de %d", week, year)
		case "mes":
			return t.Format("01/2006")
		default:
			return t.Format("02/01/2006")
		}
	}

	index := map[string]int{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		period := groupKey(day)
		i, ok := index[period]
		if !ok {
			i = len(rows)
			index[period] = i
			rows = append(rows, model.CashFlowRow{Periodo: period})
		}
		if b := days[sponte.FormatAPIDate(day)]; b != nil {
			rows[i].Receitas = round2(rows[i].Receitas + b.receitas)
			rows[i].Despesas = round2(rows[i].Despesas + b.despesas)
		}
	}
	for i := range rows {
		rows[i].Saldo = round2(rows[i].Receitas - rows[i].Despesas)
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
