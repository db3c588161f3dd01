package web

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 25 * time.Second

// events streams workspace snapshots. The current snapshot is sent first,
// then one event per change until the client disconnects.
func (h *Handler) events(c *gin.Context) {
	ws := h.workspaceFor(c)
	updates, cancel := ws.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("snapshot", ws.Snapshot())
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap := <-updates:
			c.SSEvent("snapshot", snap)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"ts": time.Now().UTC().Format(time.RFC3339)})
			return true
		}
	})
}
