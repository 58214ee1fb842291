package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload records a file stored by the uploads endpoint
type Upload struct {
	ID          string  `json:"id"`
	FileName    string  `json:"file_name"`
	ContentType string  `json:"content_type"`
	Size        Decimal `json:"size"`
	URL         string  `json:"url"`
	CreatedAt   string  `json:"created_at"`
}

// UploadFile sends a file as multipart form data. The upload participates in
// the refresh protocol like any other request; aborting ctx surfaces as a
// cancelled error, not a generic failure.
func (c *Client) UploadFile(ctx context.Context, fileName string, content io.Reader) (*Upload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, NormalizeRequest(fmt.Errorf("failed to build multipart body: %w", err))
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, NormalizeRequest(fmt.Errorf("failed to read file: %w", err))
	}
	if err := writer.Close(); err != nil {
		return nil, NormalizeRequest(fmt.Errorf("failed to finalize multipart body: %w", err))
	}

	var out Upload
	r := request{
		method:      http.MethodPost,
		path:        "/api/uploads",
		raw:         buf.Bytes(),
		contentType: writer.FormDataContentType(),
	}
	if err := c.call(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUpload deletes an uploaded file by id
func (c *Client) DeleteUpload(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/uploads/%s", id))
}
