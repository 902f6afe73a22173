package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Blob is a raw response body.
type Blob struct {
	Data []byte
	// ContentType is the header declared by the backend.
	ContentType string
	// Detected is the media type sniffed from Data.
	Detected string
}

// Download issues a GET and returns the body unparsed. Failures are reported
// exactly like Do, with the error body parsed into HTTPError.Data.
func (c *Client) Download(ctx context.Context, p Path, opts Options) (*Blob, error) {
	resp, target, err := c.send(ctx, MethodGet, p, opts)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		data := parsePayload(resp.Header().Get("Content-Type"), resp.Body())
		return nil, newHTTPError(MethodGet, target, resp.StatusCode(), resp.Status(), resp.Header(), data)
	}

	body := resp.Body()
	if body == nil {
		body = []byte{}
	}
	return &Blob{
		Data:        body,
		ContentType: resp.Header().Get("Content-Type"),
		Detected:    mimetype.Detect(body).String(),
	}, nil
}

// DownloadFile downloads p and writes it to dst, creating parent
// directories. Nothing is left at dst when the download or write fails.
func (c *Client) DownloadFile(ctx context.Context, p Path, dst string, opts Options) (*Blob, error) {
	blob, err := c.Download(ctx, p, opts)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob.Data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return nil, fmt.Errorf("failed to move file into place: %w", err)
	}
	return blob, nil
}
