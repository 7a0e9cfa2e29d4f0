package sponte

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Options{
		BaseURL:    baseURL,
		Login:      "user@escola.com.br",
		Password:   "secret",
		ClientCode: 3751,
		Timeout:    5 * time.Second,
	}, zerolog.Nop())
}

func writePage(w http.ResponseWriter, page PageResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func TestLoginStoresToken(t *testing.T) {
	var loginCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != loginEndpoint {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		loginCalls.Add(1)

		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds["login"] != "user@escola.com.br" || creds["senha"] != "secret" {
			t.Errorf("unexpected credentials: %v", creds)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	token, err := c.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}
	if got := loginCalls.Load(); got != 1 {
		t.Errorf("login calls = %d, want 1", got)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Login(context.Background()); !errors.Is(err, ErrAuth) {
		t.Fatalf("Login error = %v, want ErrAuth", err)
	}
}

func TestAuthorizedRequestLazyLogin(t *testing.T) {
	var loginCalls, dataCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginEndpoint:
			loginCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
		case EndpointStudents:
			dataCalls.Add(1)
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %q, want Bearer tok-1", got)
			}
			if got := r.URL.Query().Get("codCliSponte"); got != "3751" {
				t.Errorf("codCliSponte = %q, want 3751", got)
			}
			writePage(w, PageResponse{ListDados: []json.RawMessage{[]byte(`{}`)}, TotalPaginas: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if got := loginCalls.Load(); got != 0 {
		t.Fatalf("login calls before first request = %d, want 0", got)
	}

	page, err := c.AuthorizedRequest(context.Background(), EndpointStudents, url.Values{})
	if err != nil {
		t.Fatalf("AuthorizedRequest: %v", err)
	}
	if len(page.ListDados) != 1 {
		t.Errorf("rows = %d, want 1", len(page.ListDados))
	}
	if got := loginCalls.Load(); got != 1 {
		t.Errorf("login calls = %d, want 1", got)
	}

	// Token is reused on subsequent requests.
	if _, err := c.AuthorizedRequest(context.Background(), EndpointStudents, url.Values{}); err != nil {
		t.Fatalf("second AuthorizedRequest: %v", err)
	}
	if got := loginCalls.Load(); got != 1 {
		t.Errorf("login calls after reuse = %d, want 1", got)
	}
	if got := dataCalls.Load(); got != 2 {
		t.Errorf("data calls = %d, want 2", got)
	}
}

func TestAuthorizedRequestRetriesOnceOnExpiredToken(t *testing.T) {
	var loginCalls, dataCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginEndpoint:
			n := loginCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + string(rune('0'+n))})
		case EndpointClasses:
			dataCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer tok-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writePage(w, PageResponse{ListDados: []json.RawMessage{[]byte(`{"turmaID":1}`)}, TotalPaginas: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	page, err := c.AuthorizedRequest(context.Background(), EndpointClasses, url.Values{})
	if err != nil {
		t.Fatalf("AuthorizedRequest: %v", err)
	}
	if len(page.ListDados) != 1 {
		t.Errorf("rows = %d, want 1", len(page.ListDados))
	}
	if got := loginCalls.Load(); got != 2 {
		t.Errorf("login calls = %d, want 2 (lazy + refresh)", got)
	}
	if got := dataCalls.Load(); got != 2 {
		t.Errorf("data calls = %d, want 2 (401 + retry)", got)
	}
}

func TestAuthorizedRequestSecondUnauthorizedIsTerminal(t *testing.T) {
	var loginCalls, dataCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginEndpoint:
			loginCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		default:
			dataCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.AuthorizedRequest(context.Background(), EndpointReceivables, url.Values{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if got := dataCalls.Load(); got != 2 {
		t.Errorf("data calls = %d, want exactly 2", got)
	}
	if got := loginCalls.Load(); got != 2 {
		t.Errorf("login calls = %d, want exactly 2", got)
	}
}

func TestAuthorizedRequestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginEndpoint {
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.AuthorizedRequest(context.Background(), EndpointLessons, url.Values{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
	}
	if apiErr.Endpoint != EndpointLessons {
		t.Errorf("Endpoint = %q, want %q", apiErr.Endpoint, EndpointLessons)
	}
}
