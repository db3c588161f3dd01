// Package render turns generated guides into HTML.
package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders guide text with table, task-list and strikethrough support.
// Raw HTML in the source is passed through: the generation service is trusted
// to return safe markdown.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds the renderer.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// HTML converts source to an HTML fragment.
func (m *Markdown) HTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
