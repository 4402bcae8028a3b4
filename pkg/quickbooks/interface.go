package quickbooks

import (
	"context"
	"io"
	"time"
)

// API defines the interface for QuickBooks Online operations.
type API interface {
	// Create persists a new entity and returns the saved record
	Create(ctx context.Context, entityName string, entity Entity) (Entity, error)

	// Read fetches an entity by id (empty id for singleton resources)
	Read(ctx context.Context, entityName, id string) (Entity, error)

	// Update performs a sparse update guarded by Id and SyncToken
	Update(ctx context.Context, entityName string, entity Entity) (Entity, error)

	// Delete removes an entity given its id or full record
	Delete(ctx context.Context, entityName string, idOrEntity interface{}) (Entity, error)

	// Void voids a transaction given its id or full record
	Void(ctx context.Context, entityName string, idOrEntity interface{}) (Entity, error)

	// Batch executes up to MaxBatchItems operations in one round trip
	Batch(ctx context.Context, items []BatchItem) ([]Entity, error)

	// ChangeDataCapture polls for entities changed since a timestamp
	ChangeDataCapture(ctx context.Context, entities []string, changedSince time.Time) ([]Entity, error)

	// Query runs a select statement and returns the QueryResponse subtree
	Query(ctx context.Context, selectStatement string) (Entity, error)

	// GetPDF retrieves the PDF rendering of a printable entity
	GetPDF(ctx context.Context, entityName, id string) ([]byte, error)

	// SendPDF emails an entity's PDF
	SendPDF(ctx context.Context, entityName, id, sendTo string) (Entity, error)

	// Upload attaches a file and optionally links it to an entity
	Upload(ctx context.Context, filename, contentType string, content io.Reader, entityName, entityID string) (Entity, error)

	// RefreshAccessToken exchanges the refresh token for a new bearer pair
	RefreshAccessToken(ctx context.Context) (*TokenResponse, error)

	// RevokeAccess revokes the access or refresh token
	RevokeAccess(ctx context.Context, useRefreshToken bool) error

	// UserInfo fetches the OpenID user info for the connected user
	UserInfo(ctx context.Context) (Entity, error)
}

var _ API = (*Client)(nil)
