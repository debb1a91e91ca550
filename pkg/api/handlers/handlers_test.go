package handlers

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/marmos91/shopkeep/pkg/catalog/models"
	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/uploads/local"
)

func createTestCatalog(t *testing.T) *store.GORMStore {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestUploads(t *testing.T, paths ...string) (afero.Fs, *local.Store) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/uploads/thumbs", 0755); err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if err := afero.WriteFile(fsys, p, []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys, local.New(fsys, "mem")
}

func seedProduct(t *testing.T, s store.Store, slug string, urls ...string) string {
	t.Helper()
	p := &models.Product{Name: slug, Slug: slug, Price: 1000}
	for i := range urls {
		u := urls[i]
		p.Images = append(p.Images, models.Image{URL: &u})
	}
	id, err := s.CreateProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}
