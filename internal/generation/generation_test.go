package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error verbatim", err: errors.New("Timeout"), want: "Timeout"},
		{name: "generation error message", err: &Error{Status: 500, Message: "Error interno generando contenido: boom"}, want: "Error interno generando contenido: boom"},
		{name: "generation error without message", err: &Error{Status: 502}, want: FallbackMessage},
		{name: "wrapped generation error", err: fmt.Errorf("call: %w", &Error{Message: "Timeout"}), want: "Timeout"},
		{name: "blank error", err: errors.New("  "), want: FallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := &Error{Message: "x", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}

func TestPlaceholderGenerate(t *testing.T) {
	resp, err := Placeholder{}.Generate(context.Background(), Request{
		Topic:          "La Generación del 27",
		Subject:        "Literatura",
		StudentProfile: "Grupo mixto",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(resp.ResultText, "# Ficha didáctica: La Generación del 27") {
		t.Fatalf("unexpected heading: %q", resp.ResultText)
	}
	if !strings.Contains(resp.ResultText, "| Término |") {
		t.Fatalf("expected a vocabulary table")
	}
}

func TestUnconfigured(t *testing.T) {
	if _, err := (Unconfigured{}).Generate(context.Background(), Request{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
