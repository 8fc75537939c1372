package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Migrate(ctx context.Context) error
	Close() error

	// Resolution model related methods.
	CreateResolution(ctx context.Context, create *Resolution) (*Resolution, error)
	ListResolutions(ctx context.Context, find *FindResolution) ([]*Resolution, error)
	GetResolutionStats(ctx context.Context) (*ResolutionStats, error)
	DeleteResolutionsBefore(ctx context.Context, beforeTs int64) (int64, error)
}
