package quickbooks

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ChangeDataCapture polls for entities of the given types changed since the
// supplied timestamp. The result is the raw per-entity delta list: one
// QueryResponse element per requested entity type, each holding the changed
// records (or a Deleted status stub). Nothing is unwrapped by entity name.
func (c *Client) ChangeDataCapture(ctx context.Context, entities []string, changedSince time.Time) ([]Entity, error) {
	c.logger.Info("Polling change data capture",
		zap.Strings("entities", entities),
		zap.Time("changed_since", changedSince))

	if len(entities) == 0 {
		return nil, &ValidationError{Reason: "change data capture requires at least one entity type"}
	}

	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = Capitalize(e)
	}

	resp, err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/cdc",
		query: map[string]string{
			"entities":     strings.Join(names, ","),
			"changedSince": changedSince.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := c.checkFault(resp); err != nil {
		return nil, err
	}

	var parsed struct {
		CDCResponse []Entity `json:"CDCResponse"`
	}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		c.logger.Error("Failed to parse CDC response", zap.Error(err))
		return nil, &ParseError{Expected: "cdc response", Err: err, Body: string(resp.Body)}
	}

	return parsed.CDCResponse, nil
}
