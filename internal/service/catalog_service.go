package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/intercultura/sponte-dashboard/internal/cache"
	"github.com/intercultura/sponte-dashboard/internal/config"
	"github.com/intercultura/sponte-dashboard/internal/model"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
)

// CatalogService serves the student/class/lesson listings the dashboard
// tables are built from, memoizing each listing for the configured TTL.
type CatalogService struct {
	client *sponte.Client
	store  cache.Store
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(client *sponte.Client, store cache.Store, ttl time.Duration, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		store:  store,
		ttl:    ttl,
		log:    log.With().Str("component", "catalog_service").Logger(),
	}
}

// Students lists students, cached by the canonical filter encoding.
func (s *CatalogService) Students(ctx context.Context, p sponte.StudentParams) []model.Student {
	key := config.CacheKey.StudentsKey(p.Values().Encode())
	return cache.Memoize(ctx, s.store, key, s.ttl, func() []model.Student {
		return s.client.Students(ctx, p)
	})
}

// Classes lists classes, cached by the canonical filter encoding.
func (s *CatalogService) Classes(ctx context.Context, p sponte.ClassParams) []model.Class {
	key := config.CacheKey.ClassesKey(p.Values().Encode())
	return cache.Memoize(ctx, s.store, key, s.ttl, func() []model.Class {
		return s.client.Classes(ctx, p)
	})
}

// Lessons lists lessons, cached by the canonical filter encoding.
func (s *CatalogService) Lessons(ctx context.Context, p sponte.LessonParams) []model.Lesson {
	key := config.CacheKey.LessonsKey(p.Values().Encode())
	return cache.Memoize(ctx, s.store, key, s.ttl, func() []model.Lesson {
		return s.client.Lessons(ctx, p)
	})
}

// Facets collects the distinct filter values the dashboard sidebar offers
// from the open-class listing.
func (s *CatalogService) Facets(ctx context.Context) model.ClassFacets {
	classes := s.Classes(ctx, sponte.ClassParams{SituacaoTurma: model.ClassOpen})

	modalidades := map[string]struct{}{}
	cursos := map[string]struct{}{}
	estagios := map[string]struct{}{}
	professores := map[string]struct{}{}
	totalAlunos := 0

	for _, c := range classes {
		if c.Modalidade != "" {
			modalidades[c.Modalidade] = struct{}{}
		}
		if c.NomeCurso != "" {
			cursos[c.NomeCurso] = struct{}{}
		}
		if c.NomeEstagio != "" {
			estagios[c.NomeEstagio] = struct{}{}
		}
		if c.NomeFuncionario != "" {
			professores[c.NomeFuncionario] = struct{}{}
		}
		totalAlunos += c.NumeroAlunos
	}

	return model.ClassFacets{
		Modalidades: sortedKeys(modalidades),
		Cursos:      sortedKeys(cursos),
		Estagios:    sortedKeys(estagios),
		Professores: sortedKeys(professores),
		TotalTurmas: len(classes),
		TotalAlunos: totalAlunos,
	}
}

// StudentNames resolves student ids to display names from the cached
// active-student table.
func (s *CatalogService) StudentNames(ctx context.Context) map[int]string {
	students := s.Students(ctx, sponte.StudentParams{})
	names := make(map[int]string, len(students))
	for _, st := range students {
		if st.AlunoID > 0 && st.NomeAluno != "" {
			names[st.AlunoID] = st.NomeAluno
		}
	}
	return names
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
