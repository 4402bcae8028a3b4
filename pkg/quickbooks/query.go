package quickbooks

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// QueryOperators are the comparison operators the query endpoint accepts in
// WHERE clauses.
var QueryOperators = []string{"=", "IN", "<", ">", "<=", ">=", "LIKE"}

// Query runs a SQL-ish select statement against the company data, e.g.
//
//	qb.Query(ctx, "SELECT * FROM Invoice WHERE TotalAmt > '100.00'")
//
// The QueryResponse subtree is returned: entity rows live under the
// capitalized entity key, alongside startPosition/maxResults paging fields.
func (c *Client) Query(ctx context.Context, selectStatement string) (Entity, error) {
	c.logger.Info("Running query", zap.String("query", selectStatement))

	if selectStatement == "" {
		return nil, &ValidationError{Reason: "query requires a select statement"}
	}

	resp, err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/query",
		query:  map[string]string{"query": selectStatement},
	})
	if err != nil {
		return nil, err
	}

	body, err := c.decodeRaw(resp)
	if err != nil {
		return nil, err
	}
	return Unwrap(body, "queryResponse"), nil
}

// Count runs a COUNT(*) query for the entity name and returns the total.
func (c *Client) Count(ctx context.Context, entityName string) (int, error) {
	result, err := c.Query(ctx, "SELECT COUNT(*) FROM "+Capitalize(entityName))
	if err != nil {
		return 0, err
	}
	if n, ok := result["totalCount"].(float64); ok {
		return int(n), nil
	}
	return 0, &ParseError{Expected: "query count", Err: fmt.Errorf("response missing totalCount")}
}
