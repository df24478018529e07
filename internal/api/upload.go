package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// RequestUploadURL fetches a single-use object-storage upload URL. The URL
// is bound to a random opaque key and expires about a minute after issue,
// so callers must PUT promptly and never reuse it.
func (c *Client) RequestUploadURL(ctx context.Context) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/s3URL", nil, &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}

// PutFile streams the file bytes to a previously issued upload URL and
// returns the object's permanent URL (the upload URL minus its signing
// query).
func (c *Client) PutFile(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("uploading file", "size", size, "contentType", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upload failed", "error", err)
		return "", fmt.Errorf("upload: %w", domain.ErrServerOffline)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.RequestError{Status: resp.StatusCode, Errors: []string{"file upload failed"}}
	}

	return strings.SplitN(uploadURL, "?", 2)[0], nil
}

// ContentTypeForFilename picks the upload content type for the file formats
// the service accepts.
func ContentTypeForFilename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(lower, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
