package sponte

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// pageServer serves a paginated listing plus the login endpoint, recording
// every pagina value requested.
type pageServer struct {
	t     *testing.T
	pages map[int]PageResponse
	fail  map[int]bool

	mu        sync.Mutex
	requested []int
}

func (s *pageServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginEndpoint {
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}

		page := 0
		fmt.Sscanf(r.URL.Query().Get("pagina"), "%d", &page)
		s.mu.Lock()
		s.requested = append(s.requested, page)
		s.mu.Unlock()

		if s.fail[page] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp, ok := s.pages[page]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writePage(w, resp)
	})
}

func rawRows(values ...int) []json.RawMessage {
	rows := make([]json.RawMessage, len(values))
	for i, v := range values {
		rows[i] = json.RawMessage(fmt.Sprintf(`{"alunoID":%d}`, v))
	}
	return rows
}

func rowIDs(t *testing.T, rows []json.RawMessage) []int {
	t.Helper()
	ids := make([]int, len(rows))
	for i, raw := range rows {
		var row struct {
			AlunoID int `json:"alunoID"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			t.Fatalf("decode row %d: %v", i, err)
		}
		ids[i] = row.AlunoID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFetchAllWalksEveryPage(t *testing.T) {
	ps := &pageServer{t: t, pages: map[int]PageResponse{
		1: {ListDados: rawRows(1, 2), TotalPaginas: 3, PaginaAtual: 1},
		2: {ListDados: rawRows(3, 4), TotalPaginas: 3, PaginaAtual: 2},
		3: {ListDados: rawRows(5), TotalPaginas: 3, PaginaAtual: 3},
	}}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	rows := c.FetchAll(context.Background(), EndpointStudents, url.Values{})

	if got, want := rowIDs(t, rows), []int{1, 2, 3, 4, 5}; !equalInts(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if want := []int{1, 2, 3}; !equalInts(ps.requested, want) {
		t.Errorf("requested pages = %v, want %v", ps.requested, want)
	}
}

func TestFetchAllSkipsFailedPage(t *testing.T) {
	ps := &pageServer{
		t: t,
		pages: map[int]PageResponse{
			1: {ListDados: rawRows(1), TotalPaginas: 3},
			3: {ListDados: rawRows(3), TotalPaginas: 3},
		},
		fail: map[int]bool{2: true},
	}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	rows := c.FetchAll(context.Background(), EndpointStudents, url.Values{})

	if got, want := rowIDs(t, rows), []int{1, 3}; !equalInts(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if want := []int{1, 2, 3}; !equalInts(ps.requested, want) {
		t.Errorf("requested pages = %v, want %v", ps.requested, want)
	}
}

func TestFetchAllFirstPageFailure(t *testing.T) {
	ps := &pageServer{t: t, fail: map[int]bool{1: true}}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if rows := c.FetchAll(context.Background(), EndpointClasses, url.Values{}); rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
}

func TestFetchAllEmptyFirstPage(t *testing.T) {
	ps := &pageServer{t: t, pages: map[int]PageResponse{
		1: {ListDados: nil, TotalPaginas: 4},
	}}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if rows := c.FetchAll(context.Background(), EndpointClasses, url.Values{}); rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
	// No further pages are requested when the first comes back empty.
	if want := []int{1}; !equalInts(ps.requested, want) {
		t.Errorf("requested pages = %v, want %v", ps.requested, want)
	}
}

func TestFetchAllIgnoresLaterPageCounts(t *testing.T) {
	ps := &pageServer{t: t, pages: map[int]PageResponse{
		1: {ListDados: rawRows(1), TotalPaginas: 2},
		2: {ListDados: rawRows(2), TotalPaginas: 9},
	}}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	rows := c.FetchAll(context.Background(), EndpointStudents, url.Values{})

	if got, want := rowIDs(t, rows), []int{1, 2}; !equalInts(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	// The first page's count bounds the walk even when later pages claim more.
	if want := []int{1, 2}; !equalInts(ps.requested, want) {
		t.Errorf("requested pages = %v, want %v", ps.requested, want)
	}
}

func TestFetchAllPreservesCallerParams(t *testing.T) {
	var situacao string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginEndpoint {
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}
		situacao = r.URL.Query().Get("situacao")
		writePage(w, PageResponse{ListDados: rawRows(1), TotalPaginas: 1})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	params := url.Values{}
	params.Set("situacao", "-1")
	c.FetchAll(context.Background(), EndpointStudents, params)

	if situacao != "-1" {
		t.Errorf("situacao = %q, want -1", situacao)
	}
	// The caller's values are not mutated by the page walk.
	if got := params.Get("pagina"); got != "" {
		t.Errorf("caller params gained pagina=%q", got)
	}
}
