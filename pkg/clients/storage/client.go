package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/funchapp/funch-server/internal/config"
)

// Client exposes the object-store operations used for menu images.
type Client interface {
	UploadObject(ctx context.Context, req UploadRequest) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// UploadRequest carries one object payload.
type UploadRequest struct {
	Key         string
	ContentType string
	Body        []byte
}

// APIClient is a resty-backed implementation of Client targeting a
// signed-URL compatible HTTP object store.
type APIClient struct {
	httpClient *resty.Client
	bucket     string
}

// NewClient builds an object-store client using the provided configuration values.
func NewClient(cfg config.StorageConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		bucket:     cfg.Bucket,
	}
}

// UploadObject stores the payload and returns its public URL.
func (c *APIClient) UploadObject(ctx context.Context, req UploadRequest) (string, error) {
	if req.Key == "" {
		return "", fmt.Errorf("object key must not be empty")
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", req.ContentType).
		SetBody(req.Body).
		Put(fmt.Sprintf("/%s/%s", c.bucket, req.Key))
	if err != nil {
		return "", fmt.Errorf("upload object %s: %w", req.Key, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("storage api error: code=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return fmt.Sprintf("%s/%s/%s", c.httpClient.BaseURL, c.bucket, req.Key), nil
}

// DeleteObject removes the object if it exists.
func (c *APIClient) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("object key must not be empty")
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/%s/%s", c.bucket, key))
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("storage api error: code=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
