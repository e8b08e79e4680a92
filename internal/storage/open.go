package storage

import (
	"context"
	"fmt"

	"github.com/debemdeboas/blog-wizard/internal/config"
	"github.com/debemdeboas/blog-wizard/internal/db"
	"github.com/debemdeboas/blog-wizard/internal/util/compression"
)

// Open builds the backend selected by cfg, wrapped with compression when one
// is configured. Reachability is not checked here; the post store probes the
// backend itself and falls back to memory when it cannot write.
//
// The memory backend yields a nil Backend: nothing it holds survives a
// restart, so the post store must run memory-only and report itself as not
// durable.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	c, err := compression.ForName(cfg.Compression)
	if err != nil {
		return nil, err
	}

	var backend Backend

	switch cfg.Backend {
	case BackendMemory:
		storageLogger.Info().Msg("Memory storage selected, posts will not survive a restart")
		return nil, nil
	case BackendFile:
		backend = NewFileBackend(cfg.File.Dir)
	case BackendSQLite:
		database := db.NewSQLite(cfg.SQLite.Path)
		if err := database.InitDB(); err != nil {
			database.Close()
			return nil, err
		}
		backend = NewSQLiteBackend(database)
	case BackendS3:
		s3Backend, err := NewS3Backend(ctx, S3Options{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		backend = s3Backend
	case BackendRedis:
		redisBackend, err := NewRedisBackend(cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		backend = redisBackend
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if c != nil {
		backend = NewCompressed(backend, cfg.Compression, c)
	}

	storageLogger.Info().
		Str("backend", backend.Name()).
		Msg("Storage backend opened")

	return backend, nil
}
