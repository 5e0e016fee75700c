// Package docstore stores document contents (contracts, menus, receipts)
// behind a small object-store interface with filesystem, S3 and in-memory
// drivers. Document metadata lives in the database; only bytes live here.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Driver identifies a docstore backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("document content not found")

// Store is the backend interface. Keys are opaque; the API layer derives
// them from document ids.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Driver() Driver
}

// Config selects and parameterizes a driver.
type Config struct {
	Driver Driver
	// Filesystem
	Root string
	// S3
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Open constructs the configured Store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown docstore driver %q", cfg.Driver)
	}
}
