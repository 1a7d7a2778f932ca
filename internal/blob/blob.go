// Package blob selects and constructs the object store that report exports
// are written to.
package blob

import (
	"context"
	"fmt"

	"farmcore/internal/blob/core"
	fsstore "farmcore/internal/infra/blob/fs"
	memorystore "farmcore/internal/infra/blob/memory"
	s3store "farmcore/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config configures the S3 driver.
	S3Config = s3store.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrNotFound    = core.ErrNotFound
	ErrExists      = core.ErrExists
)

// Config selects a driver and carries its settings.
type Config struct {
	Driver        Driver   `yaml:"driver"`
	FSRoot        string   `yaml:"fs_root"`
	PublicBaseURL string   `yaml:"public_base_url"`
	S3            S3Config `yaml:"s3"`
}

// ParseDriver validates a driver name; empty selects the filesystem.
func ParseDriver(name string) (Driver, error) {
	switch Driver(name) {
	case "":
		return DriverFilesystem, nil
	case DriverFilesystem, DriverS3, DriverMemory:
		return Driver(name), nil
	default:
		return "", fmt.Errorf("unknown blob driver %q", name)
	}
}

// Open constructs the configured store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver, err := ParseDriver(string(cfg.Driver))
	if err != nil {
		return nil, err
	}
	switch driver {
	case DriverS3:
		return s3store.New(ctx, cfg.S3)
	case DriverMemory:
		return memorystore.New(), nil
	default:
		return fsstore.New(cfg.FSRoot, fsstore.WithBaseURL(cfg.PublicBaseURL))
	}
}

// NewMemory returns an in-memory store.
func NewMemory() Store { return memorystore.New() }
