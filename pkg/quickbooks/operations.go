package quickbooks

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Create persists a new entity and returns the saved record with its
// server-assigned Id and SyncToken.
func (c *Client) Create(ctx context.Context, entityName string, entity Entity) (Entity, error) {
	c.logger.Info("Creating entity", zap.String("entity", entityName))

	entityType, _ := LookupEntityType(entityName)
	resp, err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/" + entityType.URLSegment(),
		entity: entity,
	})
	if err != nil {
		return nil, err
	}
	return c.decodeEntity(resp, entityName)
}

// Read fetches an entity by id. Singleton resources (companyInfo,
// preferences, exchangerate) are read with an empty id and no trailing
// path segment.
func (c *Client) Read(ctx context.Context, entityName, id string) (Entity, error) {
	c.logger.Info("Reading entity", zap.String("entity", entityName), zap.String("id", id))

	entityType, _ := LookupEntityType(entityName)
	path := "/" + entityType.URLSegment()
	if id != "" {
		path += "/" + id
	}

	resp, err := c.do(ctx, requestSpec{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return c.decodeEntity(resp, entityName)
}

// Update performs a sparse update: only the supplied fields change
// server-side unless the caller sets sparse to false explicitly. The entity
// must carry a non-empty Id and SyncToken (exchangerate is exempt); missing
// either fails before any network I/O. An entity with void set to "true"
// is voided instead of updated.
func (c *Client) Update(ctx context.Context, entityName string, entity Entity) (Entity, error) {
	c.logger.Info("Updating entity", zap.String("entity", entityName))

	if entityName != "exchangerate" {
		if !hasNonEmptyField(entity, "Id") || !hasNonEmptyField(entity, "SyncToken") {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("%s must contain Id and SyncToken fields", entityName),
			}
		}
	}

	payload := cloneEntity(entity)
	if _, ok := payload["sparse"]; !ok {
		payload["sparse"] = true
	}

	query := map[string]string{"operation": "update"}
	if v, ok := payload["void"]; ok && fmt.Sprint(v) == "true" {
		delete(payload, "void")
		query["include"] = "void"
	}

	entityType, _ := LookupEntityType(entityName)
	resp, err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/" + entityType.URLSegment(),
		query:  query,
		entity: payload,
	})
	if err != nil {
		return nil, err
	}
	return c.decodeEntity(resp, entityName)
}

// Delete removes an entity. QuickBooks requires the full SyncToken-bearing
// record, so a bare id is resolved with a Read first; a full entity is
// posted directly.
func (c *Client) Delete(ctx context.Context, entityName string, idOrEntity interface{}) (Entity, error) {
	c.logger.Info("Deleting entity", zap.String("entity", entityName))
	return c.postOperation(ctx, entityName, "delete", idOrEntity)
}

// Void voids a transaction (payment, invoice, ...) instead of deleting it.
// Same entity resolution as Delete.
func (c *Client) Void(ctx context.Context, entityName string, idOrEntity interface{}) (Entity, error) {
	c.logger.Info("Voiding entity", zap.String("entity", entityName))
	return c.postOperation(ctx, entityName, "void", idOrEntity)
}

func (c *Client) postOperation(ctx context.Context, entityName, operation string, idOrEntity interface{}) (Entity, error) {
	var entity Entity
	switch v := idOrEntity.(type) {
	case Entity:
		entity = v
	case map[string]interface{}:
		entity = Entity(v)
	case string:
		fetched, err := c.Read(ctx, entityName, v)
		if err != nil {
			return nil, err
		}
		entity = fetched
	default:
		return nil, &ValidationError{
			Reason: fmt.Sprintf("%s %s requires an id or a full entity, got %T", entityName, operation, idOrEntity),
		}
	}

	entityType, _ := LookupEntityType(entityName)
	resp, err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/" + entityType.URLSegment(),
		query:  map[string]string{"operation": operation},
		entity: entity,
	})
	if err != nil {
		return nil, err
	}
	return c.decodeRaw(resp)
}

func hasNonEmptyField(entity Entity, field string) bool {
	v, ok := entity[field]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) != ""
}
