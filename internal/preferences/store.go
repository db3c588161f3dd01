// Package preferences persists small per-client settings such as the theme.
package preferences

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for empty client IDs or keys.
var ErrInvalidKey = errors.New("client id and key are required")

// Store is a durable string key-value store scoped by client ID.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
}

// Scoped binds a Store to one client.
type Scoped struct {
	Store    Store
	ClientID string
}

// Get reads key for the bound client.
func (s Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.Store.Get(ctx, s.ClientID, key)
}

// Set writes key for the bound client.
func (s Scoped) Set(ctx context.Context, key, value string) error {
	return s.Store.Set(ctx, s.ClientID, key, value)
}
