package service

import (
	"context"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/intercultura/sponte-dashboard/internal/sponte"
)

func newTestCatalog(t *testing.T, fake *sponteFake) (*CatalogService, func()) {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	client := sponte.NewClient(sponte.Options{
		BaseURL:    srv.URL,
		Login:      "user",
		Password:   "pass",
		ClientCode: 3751,
	}, zerolog.Nop())
	return NewCatalogService(client, newFakeStore(), time.Hour, zerolog.Nop()), srv.Close
}

func TestStudentsAreCachedPerFilter(t *testing.T) {
	fake := &sponteFake{
		students: []string{`{"alunoID":1,"nomeAluno":"Ana"}`},
	}
	svc, done := newTestCatalog(t, fake)
	defer done()

	first := svc.Students(context.Background(), sponte.StudentParams{})
	calls := fake.calls()

	second := svc.Students(context.Background(), sponte.StudentParams{})
	if got := fake.calls(); got != calls {
		t.Errorf("upstream calls grew from %d to %d on cached repeat", calls, got)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached listing differs")
	}

	// A different filter is a different cache entry.
	svc.Students(context.Background(), sponte.StudentParams{NoSituacao: true})
	if got := fake.calls(); got == calls {
		t.Error("distinct filter should reach upstream")
	}
}

func TestStudentNames(t *testing.T) {
	fake := &sponteFake{
		students: []string{
			`{"alunoID":1,"nomeAluno":"Ana"}`,
			`{"alunoID":2,"nomeAluno":""}`,
			`{"alunoID":0,"nomeAluno":"Sem ID"}`,
		},
	}
	svc, done := newTestCatalog(t, fake)
	defer done()

	names := svc.StudentNames(context.Background())
	if len(names) != 1 || names[1] != "Ana" {
		t.Errorf("names = %v, want {1: Ana}", names)
	}
}

func TestFacets(t *testing.T) {
	fake := &sponteFake{
		classes: []string{
			`{"turmaID":1,"modalidade":"Presencial","nomeCurso":"Ingles","nomeEstagio":"A1","nomeFuncionario":"Carla","alunos":[1,2]}`,
			`{"turmaID":2,"modalidade":"Online","nomeCurso":"Ingles","nomeEstagio":"B2","nomeFuncionario":"Diego","alunos":[3]}`,
			`{"turmaID":3,"modalidade":"Presencial","nomeCurso":"Espanhol","nomeFuncionario":"Carla"}`,
		},
	}
	svc, done := newTestCatalog(t, fake)
	defer done()

	facets := svc.Facets(context.Background())

	if want := []string{"Online", "Presencial"}; !reflect.DeepEqual(facets.Modalidades, want) {
		t.Errorf("Modalidades = %v, want %v", facets.Modalidades, want)
	}
	if want := []string{"Espanhol", "Ingles"}; !reflect.DeepEqual(facets.Cursos, want) {
		t.Errorf("Cursos = %v, want %v", facets.Cursos, want)
	}
	if want := []string{"Carla", "Diego"}; !reflect.DeepEqual(facets.Professores, want) {
		t.Errorf("Professores = %v, want %v", facets.Professores, want)
	}
	if facets.TotalTurmas != 3 {
		t.Errorf("TotalTurmas = %d, want 3", facets.TotalTurmas)
	}
	if facets.TotalAlunos != 3 {
		t.Errorf("TotalAlunos = %d, want 3", facets.TotalAlunos)
	}
}
