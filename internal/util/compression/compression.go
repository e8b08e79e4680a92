// Package compression provides interchangeable byte compressors for stored records.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

const (
	None = "none"
	Gzip = "gzip"
	Zstd = "zstd"
)

// ForName returns the compressor registered under name. None yields a nil
// compressor, meaning records are stored as-is.
func ForName(name string) (Compressor, error) {
	switch name {
	case "", None:
		return nil, nil
	case Gzip:
		return GzipCompressor{}, nil
	case Zstd:
		return ZstdCompressor{}, nil
	}
	return nil, fmt.Errorf("unknown compression %q", name)
}
