package storage

import (
	"context"
	"fmt"

	"github.com/tms/backend/internal/application/document"
	"github.com/tms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the object storage selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (document.ObjectStorage, error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Warn("Using in-memory object storage; stored files are lost on restart")
		return NewMemoryObjectStorage(""), nil
	case "s3":
		s, err := NewS3ObjectStorage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Object storage ready", zap.String("bucket", s.Bucket()))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
