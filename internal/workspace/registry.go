package workspace

import (
	"context"
	"sync"
	"time"

	"puente-backend/internal/shared/telemetry"
)

// Factory builds the workspace for a new client.
type Factory func(clientID string) *Workspace

// Registry keeps one workspace per client. Workspaces live in memory only.
type Registry struct {
	mu      sync.Mutex
	items   map[string]*Workspace
	factory Factory
	now     func() time.Time
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		items:   make(map[string]*Workspace),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the client's workspace, creating it on first use.
func (r *Registry) Get(clientID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.items[clientID]; ok {
		return ws
	}
	ws := r.factory(clientID)
	r.items[clientID] = ws
	return ws
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops workspaces untouched for longer than maxIdle. A workspace
// with a generation in flight or a live subscriber is kept.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.items {
		seen, pinned := ws.idleSince()
		if pinned || seen.After(cutoff) {
			continue
		}
		delete(r.items, id)
		removed++
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(maxIdle); n > 0 {
				telemetry.Info("workspace.sweep", map[string]any{"removed": n, "remaining": r.Len()})
			}
		}
	}
}
