package storage

import (
	"context"
	"fmt"

	"github.com/debemdeboas/blog-wizard/internal/util/compression"
)

// Compressed wraps a backend so that records are compressed at rest.
type Compressed struct {
	Backend
	compressor compression.Compressor
	algorithm  string
}

func NewCompressed(inner Backend, algorithm string, c compression.Compressor) *Compressed {
	return &Compressed{
		Backend:    inner,
		compressor: c,
		algorithm:  algorithm,
	}
}

func (c *Compressed) Name() string {
	return c.algorithm + "+" + c.Backend.Name()
}

func (c *Compressed) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := c.Backend.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	out, err := c.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("error decompressing %s: %w", key, err)
	}
	return out, nil
}

func (c *Compressed) Save(ctx context.Context, key string, data []byte) error {
	compressed, err := c.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("error compressing %s: %w", key, err)
	}
	return c.Backend.Save(ctx, key, compressed)
}
