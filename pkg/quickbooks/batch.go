package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// MaxBatchItems is the per-request item limit imposed by the batch
// endpoint. Batch enforces it client-side; BatchAll splits around it.
const MaxBatchItems = 30

// BatchItem is one operation of a batch request. Callers set BId to
// correlate responses, the operation name, and the entity payload under its
// capitalized envelope key, e.g.:
//
//	BatchItem{"bId": "b1", "operation": "create", "Invoice": Entity{...}}
type BatchItem map[string]interface{}

// Batch executes up to MaxBatchItems operations in one round trip. The
// per-item results are returned in server order, each carrying the bId of
// the request item it answers; items are not unwrapped by entity name, so
// callers inspect each item's own envelope.
func (c *Client) Batch(ctx context.Context, items []BatchItem) ([]Entity, error) {
	c.logger.Info("Executing batch request", zap.Int("items", len(items)))

	if len(items) == 0 {
		return nil, &ValidationError{Reason: "batch requires at least one item"}
	}
	if len(items) > MaxBatchItems {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("batch accepts at most %d items, got %d", MaxBatchItems, len(items)),
		}
	}

	resp, err := c.do(ctx, requestSpec{
		method:  http.MethodPost,
		path:    "/batch",
		rawBody: map[string]interface{}{"BatchItemRequest": items},
	})
	if err != nil {
		return nil, err
	}

	if err := c.checkFault(resp); err != nil {
		return nil, err
	}

	var parsed struct {
		BatchItemResponse []Entity `json:"BatchItemResponse"`
	}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		c.logger.Error("Failed to parse batch response", zap.Error(err))
		return nil, &ParseError{Expected: "batch response", Err: err, Body: string(resp.Body)}
	}

	return parsed.BatchItemResponse, nil
}

// BatchAll executes an arbitrarily long list of batch items by splitting it
// into MaxBatchItems-sized chunks and running the chunks concurrently.
// Results are re-assembled in the order the items were given. The first
// chunk error aborts the remaining chunks and is returned; partial results
// are discarded.
func (c *Client) BatchAll(ctx context.Context, items []BatchItem) ([]Entity, error) {
	if len(items) <= MaxBatchItems {
		return c.Batch(ctx, items)
	}

	var chunks [][]BatchItem
	for start := 0; start < len(items); start += MaxBatchItems {
		end := start + MaxBatchItems
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}

	c.logger.Info("Executing chunked batch request",
		zap.Int("items", len(items)),
		zap.Int("chunks", len(chunks)))

	results := make([][]Entity, len(chunks))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(4).WithCancelOnError()
	for i, chunk := range chunks {
		p.Go(func(ctx context.Context) error {
			out, err := c.Batch(ctx, chunk)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var flat []Entity
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}
