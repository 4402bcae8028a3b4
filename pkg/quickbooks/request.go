package quickbooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Excelzn/go-quickbooks/pkg/config"
	httpclient "github.com/Excelzn/go-quickbooks/pkg/http"
)

// requestSpec is a logical operation before translation into an HTTP call.
// Built fresh per call, never persisted.
type requestSpec struct {
	method string
	// path is relative to the company base, or one of the fixed absolute
	// out-of-band URLs (token revoke, reconnect, disconnect, user info),
	// which are used verbatim without the realm prefix.
	path    string
	query   map[string]string
	headers map[string]string
	// entity goes through pseudo-field stripping before transmission.
	entity Entity
	// rawBody bypasses entity handling (batch envelope, multipart payload).
	rawBody interface{}
	// pdf requests binary content negotiation.
	pdf bool
}

// do translates a requestSpec into an authenticated HTTP call: it resolves
// the absolute URL, merges the required query parameters, strips payload
// pseudo-fields into their query equivalents, attaches the correlation id
// and authentication headers, and issues the request.
func (c *Client) do(ctx context.Context, spec requestSpec) (*httpclient.Response, error) {
	target := spec.path
	if !strings.HasPrefix(spec.path, "http") {
		target = c.endpoints.BaseURL + c.RealmID() + spec.path
	}

	query := make(map[string]string, len(spec.query)+2)
	for k, v := range spec.query {
		query[k] = v
	}
	if _, ok := query["minorversion"]; !ok {
		if c.minorVersion != "" {
			query["minorversion"] = c.minorVersion
		} else {
			query["minorversion"] = c.cfg.MinorVersion
		}
	}
	query["format"] = "json"

	var body interface{}
	if spec.rawBody != nil {
		body = spec.rawBody
	} else if spec.entity != nil {
		entity := cloneEntity(spec.entity)
		if v, ok := entity["allowDuplicateDocNum"]; ok && v == true {
			delete(entity, "allowDuplicateDocNum")
			query["include"] = "allowduplicatedocnum"
		}
		if v, ok := entity["requestId"]; ok && v != "" && v != nil {
			delete(entity, "requestId")
			query["requestid"] = fmt.Sprint(v)
		}
		body = entity
	}

	headers := map[string]string{
		"User-Agent": userAgent,
		"Request-Id": newRequestID(),
	}
	if c.cfg.OAuthVersion == config.OAuthVersion2 {
		headers["Authorization"] = "Bearer " + c.AccessToken()
	}
	if spec.pdf || strings.HasSuffix(spec.path, "pdf") {
		headers["Accept"] = "application/pdf"
	}
	for k, v := range spec.headers {
		headers[k] = v
	}

	if c.cfg.Debug {
		c.logger.Debug("Translated request",
			zap.String("method", spec.method),
			zap.String("url", target),
			zap.Any("query", query),
			zap.Any("body", body))
	}

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method:  spec.method,
		URL:     target,
		Query:   query,
		Headers: headers,
		Body:    body,
		Context: ctx,
	})
	if err != nil {
		c.logger.Error("Request failed",
			zap.Error(err),
			zap.String("method", spec.method),
			zap.String("url", target))
		return nil, &TransportError{Err: err}
	}

	return resp, nil
}

// newRequestID returns the per-call correlation id sent in the Request-Id
// header. Time-based v1 UUIDs match what the service expects; if the node
// id cannot be determined a random v4 is used instead.
func newRequestID() string {
	if id, err := uuid.NewUUID(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
