// Package filestore deletes the files that back product image URLs.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
)

// FileStore removes the file behind an image URL. Deleting a file that does not exist succeeds.
type FileStore interface {
	Delete(ctx context.Context, imageURL string) error
}

// ErrInvalidKey is returned when no safe object key can be derived from an image URL.
var ErrInvalidKey = errors.New("invalid file key")

// KeyFromURL derives the object key from the path of an absolute or relative image URL.
// "/uploads/a.jpg" and "https://cdn.example.com/uploads/a.jpg" both map to "uploads/a.jpg".
func KeyFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if u.Path == "" {
		return "", fmt.Errorf("%w: empty path in %q", ErrInvalidKey, imageURL)
	}
	for _, segment := range strings.Split(u.Path, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: path traversal in %q", ErrInvalidKey, imageURL)
		}
	}
	key := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty path in %q", ErrInvalidKey, imageURL)
	}
	return key, nil
}

// New builds the FileStore selected by the configuration, wrapped in a circuit breaker.
func New(ctx context.Context, cfg config.FileStoreConfig, resilience config.ResilienceConfig) (FileStore, error) {
	var fs FileStore
	switch cfg.Driver {
	case config.FileStoreS3:
		s3Store, err := NewS3Store(ctx, cfg.S3, resilience.Retry)
		if err != nil {
			return nil, err
		}
		fs = s3Store
	default:
		fs = NewLocalStore(cfg.Local.Root)
	}
	return NewResilient(fs, resilience.CircuitBreaker), nil
}
