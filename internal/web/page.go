package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"puente-backend/internal/catalog"
	"puente-backend/internal/theme"
	"puente-backend/internal/workspace"
)

const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var assetFS embed.FS

func staticFS() http.FileSystem {
	sub, err := fs.Sub(assetFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

type pageData struct {
	Catalog    catalog.Catalog
	Workspace  workspace.Snapshot
	Theme      theme.Theme
	RootClass  string
	ResultHTML template.HTML
	HasResult  bool
	Loading    bool
	MinTopic   int
	MinProfile int
}

func (d pageData) SubjectLabel(value string) string {
	return d.Catalog.SubjectLabel(value)
}

func (h *Handler) index(c *gin.Context) {
	// Ask the browser to send its color-scheme preference from now on.
	c.Header("Accept-CH", colorSchemeHint)
	c.Writer.Header().Add("Vary", colorSchemeHint)
	c.Header("Critical-CH", colorSchemeHint)

	ws := h.workspaceFor(c)
	snap := ws.Snapshot()
	current := h.themeFor(c).Current()

	data := pageData{
		Catalog:    h.Catalog,
		Workspace:  snap,
		Theme:      current,
		RootClass:  current.RootClass(),
		Loading:    snap.Status == workspace.StatusLoading,
		MinTopic:   workspace.MinTopicLength,
		MinProfile: workspace.MinProfileLength,
	}
	if html, ok, err := ws.RenderHTML(); err == nil && ok {
		data.ResultHTML = html
		data.HasResult = true
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.page.tmpl.ExecuteTemplate(c.Writer, "index.html", data); err != nil {
		_ = c.Error(err)
	}
}
