package quickbooks

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// GetPDF retrieves the printable PDF rendering of an entity (invoice,
// estimate, salesReceipt, creditMemo, ...). The raw PDF bytes are returned
// without any decoding.
func (c *Client) GetPDF(ctx context.Context, entityName, id string) ([]byte, error) {
	c.logger.Info("Getting entity PDF", zap.String("entity", entityName), zap.String("id", id))

	entityType, _ := LookupEntityType(entityName)
	resp, err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/" + entityType.URLSegment() + "/" + id + "/pdf",
		pdf:    true,
	})
	if err != nil {
		return nil, err
	}

	if shape := shapeOf(resp); resp.StatusCode >= 300 || shape != ShapeBinary {
		if err := c.checkFault(resp); err != nil {
			return nil, err
		}
		// 2xx but not a PDF: the service sent an unexpected body shape.
		if shape != ShapeBinary {
			return nil, &ParseError{
				Expected: "pdf",
				Err:      fmt.Errorf("unexpected content type %q", resp.ContentType()),
				Body:     string(resp.Body),
			}
		}
	}

	return resp.Body, nil
}

// SendPDF emails an entity's PDF through QuickBooks. With an empty sendTo
// the billing email stored on the entity is used. The delivery-stamped
// entity is returned.
func (c *Client) SendPDF(ctx context.Context, entityName, id, sendTo string) (Entity, error) {
	c.logger.Info("Sending entity PDF",
		zap.String("entity", entityName),
		zap.String("id", id),
		zap.String("send_to", sendTo))

	query := map[string]string{}
	if sendTo != "" {
		query["sendTo"] = sendTo
	}

	entityType, _ := LookupEntityType(entityName)
	resp, err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/" + entityType.URLSegment() + "/" + id + "/send",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	return c.decodeEntity(resp, entityName)
}
