package api

import (
	"context"
	"io"

	"github.com/diogo/docwrangler/internal/models"
)

// DocWranglerClientInterface is the surface the commands and TUI depend on.
type DocWranglerClientInterface interface {
	SendQuery(ctx context.Context, query string) (*models.Decision, error)
	UploadDocument(ctx context.Context, path string) (*models.UploadResult, error)
	UploadReader(ctx context.Context, r io.Reader, fileName string) (*models.UploadResult, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
	BaseURL() string
	IsConfigured() bool
}

var _ DocWranglerClientInterface = (*Client)(nil)
