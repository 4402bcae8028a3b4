package quickbooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
	"go.uber.org/zap"

	httpclient "github.com/Excelzn/go-quickbooks/pkg/http"
)

// ResponseShape classifies a raw response by status and content type,
// replacing structural body sniffing with an explicit tag.
type ResponseShape int

const (
	ShapeJSON ResponseShape = iota
	ShapeXML
	ShapeBinary
	ShapeText
)

func (s ResponseShape) String() string {
	switch s {
	case ShapeJSON:
		return "json"
	case ShapeXML:
		return "xml"
	case ShapeBinary:
		return "binary"
	default:
		return "text"
	}
}

// shapeOf determines the response shape from the Content-Type header, with
// a body-prefix check as the fallback for servers that mislabel XML error
// pages as JSON or text.
func shapeOf(resp *httpclient.Response) ResponseShape {
	switch ct := resp.ContentType(); {
	case strings.Contains(ct, "json"):
		if looksLikeXML(resp.Body) {
			return ShapeXML
		}
		return ShapeJSON
	case strings.Contains(ct, "xml"), strings.Contains(ct, "html"):
		return ShapeXML
	case strings.HasPrefix(ct, "application/pdf"), strings.HasPrefix(ct, "application/octet-stream"):
		return ShapeBinary
	case strings.HasPrefix(ct, "text/"):
		if looksLikeXML(resp.Body) {
			return ShapeXML
		}
		return ShapeText
	default:
		if looksLikeXML(resp.Body) {
			return ShapeXML
		}
		if json.Valid(resp.Body) {
			return ShapeJSON
		}
		return ShapeText
	}
}

func looksLikeXML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

type faultEnvelope struct {
	Fault struct {
		Type  string        `json:"type"`
		Error []FaultDetail `json:"Error"`
	} `json:"Fault"`
}

// checkFault classifies a response as a failure when the HTTP status is 300
// or above, when the JSON body carries a non-empty Fault.Error array, or
// when an XML body arrives on a call that expected JSON. On failure the raw
// body is surfaced as the error detail.
func (c *Client) checkFault(resp *httpclient.Response) error {
	var env faultEnvelope
	hasFault := false
	if json.Valid(resp.Body) {
		if err := json.Unmarshal(resp.Body, &env); err == nil && len(env.Fault.Error) > 0 {
			hasFault = true
		}
	}

	if resp.StatusCode >= 300 || hasFault || looksLikeXML(resp.Body) {
		fault := &RemoteFault{
			StatusCode: resp.StatusCode,
			Type:       env.Fault.Type,
			Errors:     env.Fault.Error,
			Body:       string(resp.Body),
		}
		c.logger.Error("QuickBooks returned a fault",
			zap.Int("status_code", resp.StatusCode),
			zap.String("fault_type", fault.Type),
			zap.String("response", fault.Body))
		return fault
	}
	return nil
}

// decodeRaw parses a JSON response into a dynamic object without envelope
// unwrapping (batch, CDC, query responses carry their own structure).
func (c *Client) decodeRaw(resp *httpclient.Response) (Entity, error) {
	if err := c.checkFault(resp); err != nil {
		return nil, err
	}

	var body Entity
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		c.logger.Error("Failed to parse response body", zap.Error(err))
		return nil, &ParseError{Expected: "json object", Err: err, Body: string(resp.Body)}
	}
	return body, nil
}

// decodeEntity parses a JSON response and strips the single-key entity
// envelope. A body without the expected key is returned unchanged, matching
// the service's behavior for responses that are not wrapped.
func (c *Client) decodeEntity(resp *httpclient.Response, entityName string) (Entity, error) {
	body, err := c.decodeRaw(resp)
	if err != nil {
		return nil, err
	}
	return Unwrap(body, entityName), nil
}

// Unwrap extracts the entity from its {CapitalizedName: {...}} envelope.
// Missing envelopes yield the data unchanged; nil data yields nil.
func Unwrap(data Entity, entityName string) Entity {
	if data == nil {
		return nil
	}
	if inner, ok := data[Capitalize(entityName)].(map[string]interface{}); ok {
		return Entity(inner)
	}
	return data
}

// decodeXML parses an XML response into a tree and returns the subtree at
// rootTag. The reconnect/disconnect platform endpoints respond with XML
// whose ErrorCode element signals success.
func (c *Client) decodeXML(resp *httpclient.Response, rootTag string) (Entity, error) {
	if resp.StatusCode >= 300 {
		return nil, &RemoteFault{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	tree, err := mxj.NewMapXml(resp.Body)
	if err != nil {
		c.logger.Error("Failed to parse XML response", zap.Error(err))
		return nil, &ParseError{Expected: "xml", Err: err, Body: string(resp.Body)}
	}

	sub, ok := tree[rootTag].(map[string]interface{})
	if !ok {
		return nil, &ParseError{
			Expected: fmt.Sprintf("xml root tag %q", rootTag),
			Err:      fmt.Errorf("root tag %q not found", rootTag),
			Body:     string(resp.Body),
		}
	}

	if code, present := sub["ErrorCode"]; present && fmt.Sprint(code) != "0" {
		c.logger.Error("Platform call failed",
			zap.String("root_tag", rootTag),
			zap.String("error_code", fmt.Sprint(code)),
			zap.String("response", string(resp.Body)))
		return nil, &RemoteFault{
			StatusCode: resp.StatusCode,
			Errors:     []FaultDetail{{Code: fmt.Sprint(code), Message: fmt.Sprint(sub["ErrorMessage"])}},
			Body:       string(resp.Body),
		}
	}

	return Entity(sub), nil
}
