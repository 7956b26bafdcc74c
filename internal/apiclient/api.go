package apiclient

import (
	"context"

	"go-hris-admin/internal/shared/response"
)

// API is the request surface entity services depend on. *Client implements it.
//
//go:generate mockgen -source=api.go -destination=mock/api_mock.go -package=mock
type API interface {
	BaseURL() string
	Get(ctx context.Context, path string) (*response.RawEnvelope, error)
	Post(ctx context.Context, path string, body any) (*response.RawEnvelope, error)
	Put(ctx context.Context, path string, body any) (*response.RawEnvelope, error)
	Patch(ctx context.Context, path string, body any) (*response.RawEnvelope, error)
	Delete(ctx context.Context, path string) (*response.RawEnvelope, error)
	Upload(ctx context.Context, path, field, filename, contentType string, content []byte) (*response.RawEnvelope, error)
	Fetch(ctx context.Context, path string) ([]byte, string, error)
}

var _ API = (*Client)(nil)
