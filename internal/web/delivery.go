package web

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"puente-backend/internal/shared/util"
	"puente-backend/internal/workspace"
)

// responseSaver delivers a guide as an attachment on the current response.
type responseSaver struct {
	c *gin.Context
}

func (s *responseSaver) Save(_ context.Context, f workspace.File) error {
	s.c.Header("Content-Disposition", contentDisposition(f.Name))
	s.c.Header("Cache-Control", "no-store")
	s.c.Data(http.StatusOK, f.MIMEType, f.Data)
	return nil
}

// responseClipboard returns the copied text as the response body; the page
// script puts it on the browser clipboard.
type responseClipboard struct {
	c *gin.Context
}

func (r *responseClipboard) WriteText(_ context.Context, text string) error {
	r.c.Header("Cache-Control", "no-store")
	r.c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
	return nil
}

func contentDisposition(name string) string {
	safe, err := util.SanitizeFileName(name)
	if err != nil {
		safe = "Ficha_PuenteCultural.md"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": safe}); v != "" {
		return v
	}
	return `attachment; filename="` + util.ASCIIFileName(safe) + `"`
}
