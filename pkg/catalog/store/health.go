package store

import (
	"context"
	"fmt"
	"time"
)

func (s *GORMStore) Ping(ctx context.Context) (time.Duration, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying database: %w", err)
	}
	start := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		return 0, err
	}
	// PingContext may be served from a pooled connection without a round trip.
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (s *GORMStore) Healthcheck(ctx context.Context) error {
	_, err := s.Ping(ctx)
	return err
}

func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

var _ Store = (*GORMStore)(nil)
