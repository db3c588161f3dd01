package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"puente-backend/internal/generation"
)

func TestGenerateSendsPayloadAndParsesResult(t *testing.T) {
	var got generation.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultado":"# Ficha\n\nContenido"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Generate(context.Background(), generation.Request{
		Topic:          "La Generación del 27",
		Subject:        "Literatura",
		StudentProfile: "Grupo mixto",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.ResultText != "# Ficha\n\nContenido" {
		t.Fatalf("unexpected result %q", resp.ResultText)
	}
	if got.Topic != "La Generación del 27" || got.Subject != "Literatura" || got.StudentProfile != "Grupo mixto" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestGenerateSurfacesDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "string detail", status: http.StatusInternalServerError, body: `{"detail":"Error interno generando contenido: boom"}`, want: "Error interno generando contenido: boom"},
		{name: "validation detail", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, want: "field required; too short"},
		{name: "no body", status: http.StatusBadGateway, body: ``, want: "generation failed: http status 502"},
		{name: "empty detail", status: http.StatusBadRequest, body: `{"detail":""}`, want: "generation failed: http status 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, 0)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			_, err = client.Generate(context.Background(), generation.Request{Topic: "x"})
			var genErr *generation.Error
			if !errors.As(err, &genErr) {
				t.Fatalf("expected generation.Error, got %T %v", err, err)
			}
			if genErr.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, genErr.Status)
			}
			if genErr.Message != tt.want {
				t.Fatalf("expected message %q, got %q", tt.want, genErr.Message)
			}
		})
	}
}

func TestGenerateDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, 0)
	if _, err := client.Generate(context.Background(), generation.Request{}); err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected exactly one call, got %d", n)
	}
}

func TestGenerateTimeoutMessage(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client, _ := NewClient(srv.URL, 20*time.Millisecond)
	_, err := client.Generate(context.Background(), generation.Request{})
	if got := generation.UserMessage(err); got != "Timeout" {
		t.Fatalf("expected Timeout message, got %q", got)
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("  ", 0); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}

type netErr struct{ timeout bool }

func (e netErr) Error() string   { return "net" }
func (e netErr) Timeout() bool   { return e.timeout }
func (e netErr) Temporary() bool { return false }

func TestIsTimeout(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"deadline":          {fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		"wrapped net error": {fmt.Errorf("post: %w", netErr{timeout: true}), true},
		"refused":           {netErr{timeout: false}, false},
		"plain":             {errors.New("Client.Timeout exceeded"), false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := isTimeout(tc.err); got != tc.want {
				t.Fatalf("isTimeout(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
