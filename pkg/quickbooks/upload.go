package quickbooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"go.uber.org/zap"
)

// Upload attaches a file to the company as an Attachable. When entityName
// and entityID are supplied, the created Attachable is linked to that
// entity with a follow-up update adding an AttachableRef. The persisted
// Attachable is returned.
func (c *Client) Upload(ctx context.Context, filename, contentType string, content io.Reader, entityName, entityID string) (Entity, error) {
	c.logger.Info("Uploading attachment",
		zap.String("filename", filename),
		zap.String("content_type", contentType))

	if filename == "" || contentType == "" {
		return nil, &ValidationError{Reason: "upload requires a filename and content type"}
	}

	metadata := Entity{
		"FileName":    filename,
		"ContentType": contentType,
	}

	body, formContentType, err := buildUploadBody(metadata, filename, contentType, content)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, requestSpec{
		method:  http.MethodPost,
		path:    "/upload",
		headers: map[string]string{"Content-Type": formContentType},
		rawBody: body,
	})
	if err != nil {
		return nil, err
	}

	if err := c.checkFault(resp); err != nil {
		return nil, err
	}

	var parsed struct {
		AttachableResponse []struct {
			Attachable Entity `json:"Attachable"`
			Fault      *struct {
				Error []FaultDetail `json:"Error"`
			} `json:"Fault"`
		} `json:"AttachableResponse"`
	}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		c.logger.Error("Failed to parse upload response", zap.Error(err))
		return nil, &ParseError{Expected: "attachable response", Err: err, Body: string(resp.Body)}
	}
	if len(parsed.AttachableResponse) == 0 {
		return nil, &ParseError{
			Expected: "attachable response",
			Err:      fmt.Errorf("empty AttachableResponse array"),
			Body:     string(resp.Body),
		}
	}
	item := parsed.AttachableResponse[0]
	if item.Fault != nil && len(item.Fault.Error) > 0 {
		return nil, &RemoteFault{StatusCode: resp.StatusCode, Errors: item.Fault.Error, Body: string(resp.Body)}
	}

	attachable := item.Attachable
	if entityName == "" || entityID == "" {
		return attachable, nil
	}

	// Link the attachment to its owning entity.
	linked := cloneEntity(attachable)
	linked["AttachableRef"] = []Entity{
		{
			"EntityRef": Entity{
				"type":  Capitalize(entityName),
				"value": entityID,
			},
		},
	}
	return c.Update(ctx, "attachable", linked)
}

// buildUploadBody assembles the two-part multipart payload the upload
// endpoint expects: a JSON metadata part and the file content part.
func buildUploadBody(metadata Entity, filename, contentType string, content io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", `form-data; name="file_metadata_01"`)
	metaHeader.Set("Content-Type", "application/json")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create metadata part: %w", err)
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return nil, "", fmt.Errorf("failed to encode attachable metadata: %w", err)
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file_content_01"; filename=%q`, filename))
	fileHeader.Set("Content-Type", contentType)
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(filePart, content); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
