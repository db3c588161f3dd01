package generation

import (
	"context"
	"errors"
	"strings"
)

// Request is the trimmed, immutable snapshot of a draft sent for generation.
// The JSON names match the generation API contract.
type Request struct {
	Topic          string `json:"tema"`
	Subject        string `json:"materia"`
	StudentProfile string `json:"perfil_alumnos"`
}

// Response carries the markdown lesson guide.
type Response struct {
	ResultText string `json:"resultado"`
}

// Generator abstracts the service that writes lesson guides.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Error is a generation failure. Message is shown to the user as-is and
// may be empty when the collaborator gave no description.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FallbackMessage is shown when a failure carries no description.
const FallbackMessage = "Ocurrió un error inesperado."

// UserMessage derives the text shown for a failed generation.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var genErr *Error
	if errors.As(err, &genErr) {
		if strings.TrimSpace(genErr.Message) != "" {
			return genErr.Message
		}
		return FallbackMessage
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return FallbackMessage
}

// ErrNotConfigured is returned by Unconfigured.
var ErrNotConfigured = errors.New("generation service not configured")

// Unconfigured fails every request; used when no adapter could be built.
type Unconfigured struct{}

// Generate returns ErrNotConfigured.
func (Unconfigured) Generate(ctx context.Context, req Request) (Response, error) {
	_ = ctx
	_ = req
	return Response{}, ErrNotConfigured
}
