package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/robertobuso/legal-evidence-organizer/internal/config"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New returns the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStorage(cfg.UploadDir)
	case config.StorageS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// UploadKey builds a collision-free key for an uploaded file:
// <dir>/<base>_<8 hex>.<ext>. Directory parts of filename are dropped.
func UploadKey(dir, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return path.Join(dir, base+"_"+suffix+strings.ToLower(ext))
}
