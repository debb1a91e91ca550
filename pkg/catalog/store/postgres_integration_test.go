//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/shopkeep/pkg/catalog/models"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shopkeep_test"),
		postgres.WithUsername("shopkeep_test"),
		postgres.WithPassword("shopkeep_test"),
		testcontainers.WithWaitStrategyAndDeadline(2*time.Minute,
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	store, err := New(&Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{URL: connStr}})
	if err != nil {
		t.Fatalf("failed to create postgres store: %v", err)
	}
	defer store.Close()

	id, err := store.CreateProduct(ctx, &models.Product{
		Name:   "Hoodie",
		Slug:   "hoodie",
		Images: []models.Image{{URL: strPtr("/uploads/hoodie.png")}, {URL: nil}},
	})
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	urls, err := store.ImageURLs(ctx)
	if err != nil {
		t.Fatalf("ImageURLs: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("expected 2 rows, got %d", len(urls))
	}

	if _, err := store.CreateProduct(ctx, &models.Product{Name: "dup", Slug: "hoodie"}); err != models.ErrDuplicateProduct {
		t.Errorf("expected ErrDuplicateProduct, got %v", err)
	}

	if _, err := store.DeleteProduct(ctx, id); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}
	if _, err := store.Ping(ctx); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
