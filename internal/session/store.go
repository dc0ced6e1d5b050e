// Package session persists player state across runs.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/config"
	apperrors "github.com/tessro/auralyn/internal/errors"
)

// Store is durable key → value storage. Get returns an error wrapping
// apperrors.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	// DefaultFileName is the default name for the JSON session file.
	DefaultFileName = "session.json"
	// DefaultDBName is the default name for the sqlite database.
	DefaultDBName = "session.db"
)

// DefaultDir returns ~/.config/auralyn (or the platform equivalent).
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "auralyn"), nil
}

// Open builds the store selected by cfg.
func Open(ctx context.Context, cfg config.SessionConfig, log *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		})
	case "sqlite":
		path, err := pathOrDefault(cfg.Path, DefaultDBName)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)
	case "", "file":
		path, err := pathOrDefault(cfg.Path, DefaultFileName)
		if err != nil {
			return nil, err
		}
		return NewFileStore(path, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", apperrors.ErrInvalidConfig, cfg.Backend)
	}
}

func pathOrDefault(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrNotFound, key)
}
