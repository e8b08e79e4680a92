// Package storage provides the durable key/value backends a post store can
// persist its collection to.
package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Load when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// Backend stores opaque records under string keys. Implementations must treat
// Remove of a missing key as success.
type Backend interface {
	Name() string

	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error

	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

var storageLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	storageLogger = l
}
