package storage

import (
	recipeapp "github.com/mise/backend/internal/application/recipe"
	infraconfig "github.com/mise/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewImageStore builds the ImageStore for the given configuration.
// An empty bucket selects the stub backend, which disables real image
// persistence but keeps the upload endpoints functional.
func NewImageStore(cfg *infraconfig.StorageConfig, logger *zap.Logger) (recipeapp.ImageStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil || cfg.Bucket == "" {
		logger.Info("No storage bucket configured, using stub image storage")
		return NewStubImageStorage(), nil
	}

	store, err := NewS3ImageStorage(cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Info("Using S3 image storage",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", cfg.Endpoint))
	return store, nil
}
