// Package storage keeps generated documents on the local filesystem or in an
// S3-compatible bucket. Keys are slash separated, e.g. "invoices/FA2609-0001/FA2609-0001.pdf".
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/infrastructure/config"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("file not found")

// FileStore stores document files by key
type FileStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by stores able to hand out temporary download links
type Presigner interface {
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// CleanKey validates a key and returns its canonical form
func CleanKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := path.Clean(strings.TrimPrefix(key, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

// New builds the store selected by cfg.Driver
func New(cfg *config.StorageConfig, logger *zap.Logger) (FileStore, error) {
	switch cfg.Driver {
	case "", "filesystem":
		return NewFilesystemStore(cfg.RootDir)
	case "s3":
		return NewS3Store(cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
