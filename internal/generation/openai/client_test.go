package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"puente-backend/internal/generation"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "# Ficha\n\nTexto"}}
  ],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestGenerateSendsPromptAndReturnsContent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", "gpt-4o-mini", srv.URL+"/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Generate(context.Background(), generation.Request{
		Topic:          "La Guerra Civil Española",
		Subject:        "Historia",
		StudentProfile: "Mayoría de estudiantes de Colombia y Venezuela",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.ResultText != "# Ficha\n\nTexto" {
		t.Fatalf("unexpected result %q", resp.ResultText)
	}
	if body["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", body["model"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	if content, _ := user["content"].(string); !strings.Contains(content, "Tema: La Guerra Civil Española") {
		t.Fatalf("user prompt missing topic: %v", user["content"])
	}
}

func TestGenerateMapsAPIErrorWithoutRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"The server had an error","type":"server_error"}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", "gpt-4o-mini", srv.URL+"/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Generate(context.Background(), generation.Request{Topic: "x"})
	var genErr *generation.Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected generation.Error, got %T", err)
	}
	if genErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", genErr.Status)
	}
	if !strings.Contains(genErr.Message, "The server had an error") {
		t.Fatalf("unexpected message %q", genErr.Message)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one call, got %d", n)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", ""); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewClient("sk", " ", ""); err == nil {
		t.Fatalf("expected missing model error")
	}
}

func TestBuildPrompt(t *testing.T) {
	msgs := BuildPrompt(generation.Request{Topic: "T", Subject: "S", StudentProfile: "P"})
	if len(msgs) != 2 || msgs[0].Role != "system" || msgs[1].Role != "user" {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	for _, want := range []string{"Tema: T", "Materia: S", "Perfil del alumnado: P"} {
		if !strings.Contains(msgs[1].Content, want) {
			t.Fatalf("user prompt missing %q: %s", want, msgs[1].Content)
		}
	}
	if strings.Contains(msgs[1].Content, "{{") {
		t.Fatalf("unreplaced placeholder in %s", msgs[1].Content)
	}
}
