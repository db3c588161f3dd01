package workspace

import (
	"context"
	"html/template"
	"strings"
	"unicode"

	"puente-backend/internal/shared/telemetry"
)

// MarkdownMIME is the media type of a downloaded guide.
const MarkdownMIME = "text/markdown; charset=utf-8"

const (
	filenamePrefix = "Ficha_PuenteCultural_"
	filenameExt    = ".md"
)

// File is a guide handed to a FileSaver.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// FileSaver delivers a generated file to the user.
type FileSaver interface {
	Save(ctx context.Context, f File) error
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Filename derives the download name from a topic: every run of whitespace
// becomes a single underscore. Nothing else is escaped.
func Filename(topic string) string {
	var b strings.Builder
	b.Grow(len(filenamePrefix) + len(topic) + len(filenameExt))
	b.WriteString(filenamePrefix)
	inSpace := false
	for _, r := range topic {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	b.WriteString(filenameExt)
	return b.String()
}

// Result returns the current result text and whether one exists. An empty
// result counts as none.
func (w *Workspace) Result() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.hasResultLocked()
}

func (w *Workspace) hasResultLocked() bool {
	return w.status == StatusSuccess && w.result != ""
}

// CopyToClipboard hands the result text to cb. Failures are logged and
// reported only as false.
func (w *Workspace) CopyToClipboard(ctx context.Context, cb Clipboard) bool {
	text, ok := w.Result()
	if !ok || cb == nil {
		return false
	}
	if err := cb.WriteText(ctx, text); err != nil {
		telemetry.Warn("clipboard.write_failed", map[string]any{
			"client_id": w.id,
			"error":     err,
		})
		return false
	}
	return true
}

// DownloadAsFile saves the result as a markdown file named after the current
// draft topic. Without a result it does nothing and returns false.
func (w *Workspace) DownloadAsFile(ctx context.Context, saver FileSaver) (bool, error) {
	w.mu.Lock()
	text, ok := w.result, w.hasResultLocked()
	topic := w.draft.Topic
	w.mu.Unlock()

	if !ok || saver == nil {
		return false, nil
	}
	f := File{
		Name:     Filename(topic),
		MIMEType: MarkdownMIME,
		Data:     []byte(text),
	}
	if err := saver.Save(ctx, f); err != nil {
		telemetry.Warn("download.save_failed", map[string]any{
			"client_id": w.id,
			"filename":  f.Name,
			"error":     err,
		})
		return false, err
	}
	return true, nil
}

// RenderHTML renders the result as HTML. Raw HTML inside the markdown is
// passed through.
func (w *Workspace) RenderHTML() (template.HTML, bool, error) {
	text, ok := w.Result()
	if !ok {
		return "", false, nil
	}
	out, err := w.renderer.HTML(text)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}
