package sponte

import (
	"net/url"
	"strconv"

	"github.com/intercultura/sponte-dashboard/internal/model"
)

// Each accessor has its own parameter struct with the defaulting rules the
// dashboard relies on; Values renders the query the upstream API expects.
// Canonical ordering comes from url.Values.Encode (sorted keys), which the
// cache layer reuses for stable memoization keys.

// StudentParams filters the /alunos listing.
type StudentParams struct {
	// Situacao filters by student situation; defaults to active when nil.
	// Set NoSituacao to omit the filter and let the server default apply.
	Situacao   *int
	NoSituacao bool
}

func (p StudentParams) Values() url.Values {
	v := url.Values{}
	if !p.NoSituacao {
		situacao := model.StudentActive
		if p.Situacao != nil {
			situacao = *p.Situacao
		}
		v.Set("situacao", strconv.Itoa(situacao))
	}
	return v
}

// ClassParams filters the /turmas listing. SituacaoTurma, IdiomaID and
// EstagioID are always attached (the API requires them); Modalidade only
// when set.
type ClassParams struct {
	SituacaoTurma int
	IdiomaID      int
	EstagioID     int
	Modalidade    string
}

func (p ClassParams) Values() url.Values {
	v := url.Values{}
	v.Set("situacaoTurma", strconv.Itoa(p.SituacaoTurma))
	v.Set("idiomaId", strconv.Itoa(p.IdiomaID))
	v.Set("estagioId", strconv.Itoa(p.EstagioID))
	if p.Modalidade != "" {
		v.Set("modalidade", p.Modalidade)
	}
	return v
}

// LessonParams filters the /aulas listing. Id filters are attached only
// when positive — zero means "no filter".
type LessonParams struct {
	DataAulaInicio string
	DataAulaFim    string
	Situacao       *int
	AlunoID        int
	TurmaID        int
	ProfessorID    int
}

func (p LessonParams) Values() url.Values {
	v := url.Values{}
	if p.DataAulaInicio != "" {
		v.Set("dataAulaInicio", p.DataAulaInicio)
	}
	if p.DataAulaFim != "" {
		v.Set("dataAulaFim", p.DataAulaFim)
	}
	if p.Situacao != nil {
		v.Set("situacao", strconv.Itoa(*p.Situacao))
	}
	if p.AlunoID > 0 {
		v.Set("alunoId", strconv.Itoa(p.AlunoID))
	}
	if p.TurmaID > 0 {
		v.Set("turmaId", strconv.Itoa(p.TurmaID))
	}
	if p.ProfessorID > 0 {
		v.Set("professorId", strconv.Itoa(p.ProfessorID))
	}
	return v
}

// ReceivableParams filters the /contasReceber listing. ValorMinimo and
// ValorMaximo are applied client-side after the fetch — the API has no
// amount filter.
type ReceivableParams struct {
	Situacao             *int
	AlunoID              int
	DataVencimentoInicio string
	DataVencimentoFim    string
	DataPagamentoInicio  string
	DataPagamentoFim     string
	PlanoContasID        int
	ValorMinimo          *float64
	ValorMaximo          *float64
}

func (p ReceivableParams) Values() url.Values {
	v := url.Values{}
	if p.Situacao != nil {
		v.Set("situacao", strconv.Itoa(*p.Situacao))
	}
	if p.AlunoID > 0 {
		v.Set("alunoID", strconv.Itoa(p.AlunoID))
	}
	if p.DataVencimentoInicio != "" {
		v.Set("dataVencimentoInicio", p.DataVencimentoInicio)
	}
	if p.DataVencimentoFim != "" {
		v.Set("dataVencimentoFim", p.DataVencimentoFim)
	}
	if p.DataPagamentoInicio != "" {
		v.Set("dataPagamentoInicio", p.DataPagamentoInicio)
	}
	if p.DataPagamentoFim != "" {
		v.Set("dataPagamentoFim", p.DataPagamentoFim)
	}
	if p.PlanoContasID > 0 {
		v.Set("planoContasID", strconv.Itoa(p.PlanoContasID))
	}
	return v
}

// PayableParams filters the /contasPagar listing.
type PayableParams struct {
	Situacao             *int
	ContaPagarID         int
	DataVencimentoInicio string
	DataVencimentoFim    string
	DataPagamentoInicio  string
	DataPagamentoFim     string
}

func (p PayableParams) Values() url.Values {
	v := url.Values{}
	if p.Situacao != nil {
		v.Set("situacao", strconv.Itoa(*p.Situacao))
	}
	if p.ContaPagarID > 0 {
		v.Set("contaPagarID", strconv.Itoa(p.ContaPagarID))
	}
	if p.DataVencimentoInicio != "" {
		v.Set("dataVencimentoInicio", p.DataVencimentoInicio)
	}
	if p.DataVencimentoFim != "" {
		v.Set("dataVencimentoFim", p.DataVencimentoFim)
	}
	if p.DataPagamentoInicio != "" {
		v.Set("dataPagamentoInicio", p.DataPagamentoInicio)
	}
	if p.DataPagamentoFim != "" {
		v.Set("dataPagamentoFim", p.DataPagamentoFim)
	}
	return v
}

// IntPtr is a convenience for building optional int filters.
func IntPtr(v int) *int { return &v }

// FloatPtr is a convenience for building optional amount bounds.
func FloatPtr(v float64) *float64 { return &v }
