// Package web exposes the guide workspace over HTTP: the form page, a JSON
// API the page script drives, and a server-sent-events stream of snapshots.
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"puente-backend/internal/catalog"
	"puente-backend/internal/preferences"
	"puente-backend/internal/shared/server/middleware"
	"puente-backend/internal/shared/server/respond"
	"puente-backend/internal/shared/telemetry"
	"puente-backend/internal/theme"
	"puente-backend/internal/workspace"
)

// Handler wires HTTP handlers to the workspace registry.
type Handler struct {
	Workspaces  *workspace.Registry
	Preferences preferences.Store
	Catalog     catalog.Catalog
	page        *pageRenderer
}

// NewHandler constructs a Handler.
func NewHandler(workspaces *workspace.Registry, prefs preferences.Store, c catalog.Catalog) *Handler {
	return &Handler{
		Workspaces:  workspaces,
		Preferences: prefs,
		Catalog:     c,
		page:        newPageRenderer(),
	}
}

// RegisterPageRoutes attaches the form page and its static assets.
func (h *Handler) RegisterPageRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.StaticFS("/static", staticFS())
}

// RegisterRoutes attaches the workspace and theme API to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workspace", h.snapshot)
	rg.PUT("/workspace/draft", h.updateDraft)
	rg.POST("/workspace/generate", h.generate)
	rg.GET("/workspace/events", h.events)
	rg.GET("/workspace/result", h.result)
	rg.POST("/workspace/copy", h.copyText)
	rg.GET("/workspace/download", h.download)
	rg.GET("/theme", h.currentTheme)
	rg.POST("/theme/toggle", h.toggleTheme)
}

func (h *Handler) workspaceFor(c *gin.Context) *workspace.Workspace {
	return h.Workspaces.Get(middleware.ClientIDFromContext(c))
}

func (h *Handler) themeFor(c *gin.Context) *theme.Controller {
	var storage theme.Storage
	if h.Preferences != nil {
		storage = preferences.Scoped{Store: h.Preferences, ClientID: middleware.ClientIDFromContext(c)}
	}
	return theme.Init(c.Request.Context(), storage, prefersDark(c))
}

func (h *Handler) snapshot(c *gin.Context) {
	respond.OK(c, h.workspaceFor(c).Snapshot())
}

type updateDraftRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *Handler) updateDraft(c *gin.Context) {
	var req updateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	snap, err := h.workspaceFor(c).UpdateField(req.Key, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, workspace.ErrUnknownField):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"key": req.Key})
		case errors.Is(err, workspace.ErrInvalidSubject):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"subject": req.Value})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update draft", nil)
		}
		return
	}
	respond.OK(c, snap)
}

func (h *Handler) generate(c *gin.Context) {
	ws := h.workspaceFor(c)
	runID, err := ws.Start(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, workspace.ErrBusy):
			respond.Error(c, http.StatusConflict, "busy", err.Error(), nil)
		case errors.Is(err, workspace.ErrCannotSubmit):
			respond.Error(c, http.StatusUnprocessableEntity, "cannot_submit", err.Error(), gin.H{
				"minTopicLength":   workspace.MinTopicLength,
				"minProfileLength": workspace.MinProfileLength,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start generation", nil)
		}
		return
	}
	c.Set(middleware.GenerationIDKey, runID)
	respond.Accepted(c, gin.H{
		"generationId": runID,
		"workspace":    ws.Snapshot(),
	})
}

func (h *Handler) result(c *gin.Context) {
	html, ok, err := h.workspaceFor(c).RenderHTML()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "render_error", "failed to render result", nil)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) copyText(c *gin.Context) {
	cb := &responseClipboard{c: c}
	if !h.workspaceFor(c).CopyToClipboard(c.Request.Context(), cb) {
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) download(c *gin.Context) {
	saved, err := h.workspaceFor(c).DownloadAsFile(c.Request.Context(), &responseSaver{c: c})
	if err != nil {
		if !c.Writer.Written() {
			respond.Error(c, http.StatusInternalServerError, "download_error", "failed to prepare download", nil)
		}
		return
	}
	if !saved {
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) currentTheme(c *gin.Context) {
	current := h.themeFor(c).Current()
	respond.OK(c, gin.H{"theme": current, "rootClass": current.RootClass()})
}

func (h *Handler) toggleTheme(c *gin.Context) {
	ctrl := h.themeFor(c)
	next, err := ctrl.Toggle(c.Request.Context())
	persisted := err == nil
	if err != nil {
		telemetry.Warn("theme.write_failed", map[string]any{
			"client_id": middleware.ClientIDFromContext(c),
			"error":     err,
		})
	}
	respond.OK(c, gin.H{"theme": next, "rootClass": next.RootClass(), "persisted": persisted})
}

// prefersDark reads the system color-scheme preference from the client hint,
// or from a prefers_dark query value sent by the page script.
func prefersDark(c *gin.Context) bool {
	if hint := c.GetHeader(colorSchemeHint); hint != "" {
		return theme.PrefersDark(hint)
	}
	switch c.Query("prefers_dark") {
	case "1", "true":
		return true
	}
	return false
}
