package store

import (
	"context"
	"time"

	"github.com/marmos91/shopkeep/pkg/catalog/models"
)

// Store is the catalog persistence layer.
type Store interface {
	// ImageURLs returns the url column of every image row, NULLs included.
	ImageURLs(ctx context.Context) ([]*string, error)

	CreateProduct(ctx context.Context, p *models.Product) (string, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)

	// UpdateProduct overwrites the fields of the product with p.ID and
	// replaces its images with p.Images. It returns the product as it was
	// before the update.
	UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error)

	// DeleteProduct removes the product and its images and returns what was
	// deleted so callers can clean up the referenced files.
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)

	// Ping checks connectivity and reports the round-trip latency.
	Ping(ctx context.Context) (time.Duration, error)
	Healthcheck(ctx context.Context) error
	Close() error
}
