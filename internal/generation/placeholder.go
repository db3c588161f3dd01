package generation

import (
	"context"
	"fmt"
	"strings"
)

// Placeholder writes a fixed-shape guide locally, for demos and development.
type Placeholder struct{}

// Generate builds a markdown guide from the request without any network call.
func (Placeholder) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Ficha didáctica: %s\n\n", req.Topic)
	fmt.Fprintf(&sb, "**Materia:** %s  \n**Perfil del alumnado:** %s\n\n", req.Subject, req.StudentProfile)
	sb.WriteString("## Objetivos\n\n")
	sb.WriteString("- [ ] Comprender el contexto del tema\n")
	sb.WriteString("- [ ] Relacionarlo con la experiencia cultural del grupo\n\n")
	sb.WriteString("## Vocabulario clave\n\n")
	sb.WriteString("| Término | Explicación sencilla |\n")
	sb.WriteString("|---|---|\n")
	fmt.Fprintf(&sb, "| %s | Definición adaptada al nivel del grupo |\n\n", req.Topic)
	sb.WriteString("## Puente cultural\n\n")
	fmt.Fprintf(&sb, "Conecta \"%s\" con acontecimientos equivalentes en los países de origen del alumnado.\n", req.Topic)
	return Response{ResultText: sb.String()}, nil
}
