// Package theme resolves and toggles the light/dark presentation preference.
package theme

import (
	"context"
	"strings"
	"sync"

	"puente-backend/internal/shared/telemetry"
)

// Theme is the presentation preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PreferenceKey is the storage key the theme is persisted under.
const PreferenceKey = "theme"

// Storage is the durable key-value capability the controller writes through.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Parse accepts exactly "light" or "dark".
func Parse(raw string) (Theme, bool) {
	switch Theme(raw) {
	case Light, Dark:
		return Theme(raw), true
	default:
		return "", false
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// RootClass is the class applied to the document root.
func (t Theme) RootClass() string {
	if t == Dark {
		return "dark"
	}
	return ""
}

// Controller owns one client's theme.
type Controller struct {
	mu      sync.Mutex
	storage Storage
	current Theme
}

// Init resolves the starting theme: a valid stored value wins, then the
// system dark-mode preference, then light. A failing store read is logged and
// treated as "nothing stored".
func Init(ctx context.Context, storage Storage, prefersDark bool) *Controller {
	c := &Controller{storage: storage, current: Light}
	if prefersDark {
		c.current = Dark
	}
	if storage == nil {
		return c
	}
	raw, ok, err := storage.Get(ctx, PreferenceKey)
	if err != nil {
		telemetry.Warn("theme.read_failed", map[string]any{"error": err})
		return c
	}
	if ok {
		if t, valid := Parse(raw); valid {
			c.current = t
		}
	}
	return c
}

// Current returns the applied theme.
func (c *Controller) Current() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Toggle flips the theme and writes it to storage before returning. The new
// theme stays applied even if the write fails; the error is returned.
func (c *Controller) Toggle(ctx context.Context) (Theme, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Opposite()
	if c.storage == nil {
		return c.current, nil
	}
	return c.current, c.storage.Set(ctx, PreferenceKey, string(c.current))
}

// PrefersDark reads the Sec-CH-Prefers-Color-Scheme client hint, whose value
// is a quoted string such as "dark".
func PrefersDark(hint string) bool {
	return strings.EqualFold(strings.Trim(strings.TrimSpace(hint), `"`), "dark")
}
