package config

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/uploads"
	"github.com/marmos91/shopkeep/pkg/uploads/local"
	uploadss3 "github.com/marmos91/shopkeep/pkg/uploads/s3"
)

// CreateUploadsStore creates the uploads backend selected by cfg.Type.
func CreateUploadsStore(ctx context.Context, cfg UploadsConfig) (uploads.Store, error) {
	switch cfg.Type {
	case UploadsTypeLocal, "":
		return createLocalUploadsStore(cfg.Local)
	case UploadsTypeS3:
		return createS3UploadsStore(ctx, cfg.S3)
	case UploadsTypeMemory:
		// Empty uploads tree, for demos and tests.
		fsys := afero.NewMemMapFs()
		if err := fsys.MkdirAll("/"+string(uploads.DirThumbs), 0755); err != nil {
			return nil, fmt.Errorf("failed to prepare memory uploads store: %w", err)
		}
		return local.New(fsys, "memory"), nil
	default:
		return nil, fmt.Errorf("unknown uploads store type: %q", cfg.Type)
	}
}

func createLocalUploadsStore(cfg LocalUploadsConfig) (uploads.Store, error) {
	s, err := local.NewOS(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open local uploads store: %w", err)
	}
	logger.Debug("Local uploads store opened", logger.Root(s.Root()))
	return s, nil
}

func createS3UploadsStore(ctx context.Context, cfg S3UploadsConfig) (uploads.Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 uploads store requires bucket to be set")
	}

	s, err := uploadss3.NewFromConfig(ctx, uploadss3.Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		KeyPrefix:       cfg.KeyPrefix,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		ForcePathStyle:  cfg.ForcePathStyle,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("S3 uploads store opened", logger.Bucket(cfg.Bucket))
	return s, nil
}

// CreateCatalogStore opens the catalog database described by cfg.
func CreateCatalogStore(cfg *store.Config) (store.Store, error) {
	s, err := store.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}
	logger.Debug("Catalog store opened", logger.Database(string(cfg.Type)))
	return s, nil
}
