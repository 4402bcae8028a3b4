// Package tokenstore persists OAuth2 token pairs per company realm so a
// refreshed token survives process restarts. The quickbooks client writes
// through a Store on successful refresh and deletes on revoke.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no tokens are stored for a realm.
var ErrNotFound = errors.New("tokenstore: no tokens for realm")

// Tokens is one realm's persisted token pair.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store persists token pairs keyed by realm id.
type Store interface {
	// Save stores or replaces the tokens for a realm
	Save(ctx context.Context, realmID string, tokens *Tokens) error

	// Get retrieves the tokens for a realm, ErrNotFound when absent
	Get(ctx context.Context, realmID string) (*Tokens, error)

	// Delete removes the tokens for a realm; deleting an absent realm is not an error
	Delete(ctx context.Context, realmID string) error
}
