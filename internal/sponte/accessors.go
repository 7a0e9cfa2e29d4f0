package sponte

import (
	"context"

	"github.com/intercultura/sponte-dashboard/internal/model"
)

// List endpoints consumed by the accessors.
const (
	EndpointStudents    = "/api/v1/alunos"
	EndpointClasses     = "/api/v1/turmas"
	EndpointLessons     = "/api/v1/aulas"
	EndpointReceivables = "/api/v1/contasReceber"
	EndpointPayables    = "/api/v1/contasPagar"
)

// The accessors never return an error: any underlying failure has already
// been logged by the fetcher and degrades to an empty table, which the
// dashboard renders as "no data".

// Students lists students across all pages.
func (c *Client) Students(ctx context.Context, p StudentParams) []model.Student {
	return decodeRows[model.Student](c.log, c.FetchAll(ctx, EndpointStudents, p.Values()))
}

// Classes lists classes across all pages.
func (c *Client) Classes(ctx context.Context, p ClassParams) []model.Class {
	return decodeRows[model.Class](c.log, c.FetchAll(ctx, EndpointClasses, p.Values()))
}

// Lessons lists lessons across all pages.
func (c *Client) Lessons(ctx context.Context, p LessonParams) []model.Lesson {
	return decodeRows[model.Lesson](c.log, c.FetchAll(ctx, EndpointLessons, p.Values()))
}

// Receivables lists receivables across all pages, applying the client-side
// amount range filter when one is set.
func (c *Client) Receivables(ctx context.Context, p ReceivableParams) []model.Receivable {
	rows := decodeRows[model.Receivable](c.log, c.FetchAll(ctx, EndpointReceivables, p.Values()))
	if p.ValorMinimo == nil && p.ValorMaximo == nil {
		return rows
	}

	filtered := make([]model.Receivable, 0, len(rows))
	for _, r := range rows {
		v, ok := r.Valor.Value()
		if !ok {
			continue
		}
		if p.ValorMinimo != nil && v < *p.ValorMinimo {
			continue
		}
		if p.ValorMaximo != nil && v > *p.ValorMaximo {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Payables lists payables across all pages.
func (c *Client) Payables(ctx context.Context, p PayableParams) []model.Payable {
	return decodeRows[model.Payable](c.log, c.FetchAll(ctx, EndpointPayables, p.Values()))
}
