package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// Accessor keys embed the canonical (sorted) query encoding of the call's
// parameters, so equivalent argument sets map to the same key no matter how
// the caller supplied them.

// StudentsKey returns the cache key for a student listing.
func (r *CacheKeyStruct) StudentsKey(query string) string {
	return fmt.Sprintf("sponte:alunos:%s", query)
}

// ClassesKey returns the cache key for a class listing.
func (r *CacheKeyStruct) ClassesKey(query string) string {
	return fmt.Sprintf("sponte:turmas:%s", query)
}

// LessonsKey returns the cache key for a lesson listing.
func (r *CacheKeyStruct) LessonsKey(query string) string {
	return fmt.Sprintf("sponte:aulas:%s", query)
}

// ReceivablesKey returns the cache key for a receivables listing.
func (r *CacheKeyStruct) ReceivablesKey(query string) string {
	return fmt.Sprintf("sponte:contas_receber:%s", query)
}

// PayablesKey returns the cache key for a payables listing.
func (r *CacheKeyStruct) PayablesKey(query string) string {
	return fmt.Sprintf("sponte:contas_pagar:%s", query)
}

// ClassFinanceKey returns the cache key for a class financial summary.
// The roster portion is derived from the sorted unique student id set, not
// from the order the roster was supplied in.
func (r *CacheKeyStruct) ClassFinanceKey(classID int, studentIDs []int, periodStart, periodEnd string) string {
	ids := make([]int, 0, len(studentIDs))
	seen := make(map[int]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("finance:turma:%d:%s:%s:%s", classID, periodStart, periodEnd, strings.Join(parts, ","))
}

// FinanceSummaryKey returns the cache key for a monthly financial summary.
func (r *CacheKeyStruct) FinanceSummaryKey(year, month int) string {
	return fmt.Sprintf("finance:resumo:%04d-%02d", year, month)
}

// OverdueKey returns the cache key for the overdue installment report.
func (r *CacheKeyStruct) OverdueKey(minDaysLate int) string {
	return fmt.Sprintf("finance:vencidas:%d", minDaysLate)
}

// CashFlowKey returns the cache key for a cash flow report.
func (r *CacheKeyStruct) CashFlowKey(start, end, groupBy string) string {
	return fmt.Sprintf("finance:fluxo:%s:%s:%s", start, end, groupBy)
}

var CacheKey = NewCacheKeyStruct()
