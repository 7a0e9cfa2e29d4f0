package sponte

import (
	"testing"

	"github.com/intercultura/sponte-dashboard/internal/model"
)

func TestStudentParamsDefaultsToActive(t *testing.T) {
	v := StudentParams{}.Values()
	if got := v.Get("situacao"); got != "-1" {
		t.Errorf("situacao = %q, want -1", got)
	}
}

func TestStudentParamsExplicitSituacao(t *testing.T) {
	v := StudentParams{Situacao: IntPtr(model.StudentInterested)}.Values()
	if got := v.Get("situacao"); got != "-3" {
		t.Errorf("situacao = %q, want -3", got)
	}
}

func TestStudentParamsNoSituacaoOmitsFilter(t *testing.T) {
	v := StudentParams{NoSituacao: true}.Values()
	if _, ok := v["situacao"]; ok {
		t.Errorf("situacao present: %v", v)
	}
}

func TestClassParamsAlwaysCarryRequiredFilters(t *testing.T) {
	v := ClassParams{SituacaoTurma: model.ClassOpen}.Values()
	for _, key := range []string{"situacaoTurma", "idiomaId", "estagioId"} {
		if _, ok := v[key]; !ok {
			t.Errorf("missing required key %s", key)
		}
	}
	if _, ok := v["modalidade"]; ok {
		t.Error("empty modalidade should be omitted")
	}

	v = ClassParams{SituacaoTurma: model.ClassOpen, Modalidade: "Presencial"}.Values()
	if got := v.Get("modalidade"); got != "Presencial" {
		t.Errorf("modalidade = %q", got)
	}
}

func TestLessonParamsOmitZeroIDs(t *testing.T) {
	v := LessonParams{}.Values()
	if len(v) != 0 {
		t.Errorf("empty params produced %v", v)
	}

	v = LessonParams{
		DataAulaInicio: "2025-02-01",
		DataAulaFim:    "2025-02-28",
		Situacao:       IntPtr(model.LessonConfirmed),
		TurmaID:        42,
	}.Values()
	if got := v.Get("dataAulaInicio"); got != "2025-02-01" {
		t.Errorf("dataAulaInicio = %q", got)
	}
	if got := v.Get("situacao"); got != "1" {
		t.Errorf("situacao = %q, want 1", got)
	}
	if got := v.Get("turmaId"); got != "42" {
		t.Errorf("turmaId = %q, want 42", got)
	}
	if _, ok := v["alunoId"]; ok {
		t.Error("zero alunoId should be omitted")
	}
}

func TestReceivableParamsAmountBoundsStayClientSide(t *testing.T) {
	v := ReceivableParams{
		AlunoID:     7,
		ValorMinimo: FloatPtr(50),
		ValorMaximo: FloatPtr(500),
	}.Values()
	if got := v.Get("alunoID"); got != "7" {
		t.Errorf("alunoID = %q, want 7", got)
	}
	for _, key := range []string{"valorMinimo", "valorMaximo"} {
		if _, ok := v[key]; ok {
			t.Errorf("%s leaked into the query", key)
		}
	}
}

func TestParamEncodingIsCanonical(t *testing.T) {
	a := ReceivableParams{
		Situacao:             IntPtr(model.AccountPending),
		AlunoID:              7,
		DataVencimentoInicio: "2025-01-01",
	}.Values().Encode()
	b := ReceivableParams{
		DataVencimentoInicio: "2025-01-01",
		AlunoID:              7,
		Situacao:             IntPtr(model.AccountPending),
	}.Values().Encode()
	if a != b {
		t.Errorf("encodings differ: %q vs %q", a, b)
	}
}
