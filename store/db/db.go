// Package db selects the store driver based on the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/timewalk/internal/profile"
	"github.com/hrygo/timewalk/store"
	"github.com/hrygo/timewalk/store/db/sqlite"
)

// NewDBDriver creates a new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		driver, err := sqlite.NewDB(profile)
		if err != nil {
			return nil, errors.Wrap(err, "create sqlite driver")
		}
		return driver, nil
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' is supported", profile.Driver)
	}
}
