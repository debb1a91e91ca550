package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

func TestCreateUploadsStore_Local(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads", "thumbs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "a.png"), []byte("x"), 0644))

	s, err := CreateUploadsStore(context.Background(), UploadsConfig{
		Type:  UploadsTypeLocal,
		Local: LocalUploadsConfig{Root: root},
	})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, "local", s.Type())
	entries, err := s.List(context.Background(), uploads.DirRoot)
	require.NoError(t, err)
	assert.Equal(t, []uploads.Entry{{Name: "a.png", Regular: true}, {Name: "thumbs", IsDir: true}}, entries)
}

func TestCreateUploadsStore_LocalMissingRoot(t *testing.T) {
	s, err := CreateUploadsStore(context.Background(), UploadsConfig{
		Type:  UploadsTypeLocal,
		Local: LocalUploadsConfig{Root: filepath.Join(t.TempDir(), "absent")},
	})
	require.NoError(t, err)

	entries, err := s.List(context.Background(), uploads.DirRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateUploadsStore_Memory(t *testing.T) {
	s, err := CreateUploadsStore(context.Background(), UploadsConfig{Type: UploadsTypeMemory})
	require.NoError(t, err)

	require.NoError(t, s.Healthcheck(context.Background()))
	entries, err := s.List(context.Background(), uploads.DirThumbs)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateUploadsStore_S3RequiresBucket(t *testing.T) {
	_, err := CreateUploadsStore(context.Background(), UploadsConfig{Type: UploadsTypeS3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestCreateUploadsStore_UnknownType(t *testing.T) {
	_, err := CreateUploadsStore(context.Background(), UploadsConfig{Type: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestCreateCatalogStore(t *testing.T) {
	s, err := CreateCatalogStore(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	urls, err := s.ImageURLs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	res := InitializeMetrics(GetDefaultConfig())
	assert.Nil(t, res.Reconcile)
	assert.Nil(t, res.HTTP)
	assert.Nil(t, res.Handler)
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)

	s := string(data)
	for _, key := range []string{`"uploads"`, `"database"`, `"api"`, `"shutdown_timeout"`} {
		assert.True(t, strings.Contains(s, key), "schema missing %s", key)
	}
}
