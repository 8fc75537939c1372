// Package store persists the resolution audit log: one row per resolved
// abstract value, with its declarative payload and outcome. The audit log is
// strictly an operator surface; resolution itself never depends on it.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/timewalk/internal/profile"
)

// ResolutionOutcome is the terminal state of one resolution attempt.
type ResolutionOutcome string

const (
	OutcomeResolved   ResolutionOutcome = "resolved"
	OutcomeUnresolved ResolutionOutcome = "unresolved"
)

// Resolution is one audit record.
type Resolution struct {
	ID        string
	CreatedTs int64
	// Kind is the dimension kind name of the input value.
	Kind string
	// Payload is the declarative JSON form of the input value.
	Payload string
	Outcome ResolutionOutcome
	// OutputKind names the output variant, empty when unresolved.
	OutputKind string
	LatencyUS  int64
}

// FindResolution filters ListResolutions.
type FindResolution struct {
	Kind    *string
	Outcome *ResolutionOutcome
	Limit   *int
}

// ResolutionStats aggregates the audit log.
type ResolutionStats struct {
	Total      int64
	Resolved   int64
	Unresolved int64
	ByKind     map[string]int64
}

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateResolution inserts one audit record, assigning an ID when absent.
func (s *Store) CreateResolution(ctx context.Context, create *Resolution) (*Resolution, error) {
	if create.ID == "" {
		create.ID = uuid.NewString()
	}
	if create.Outcome != OutcomeResolved && create.Outcome != OutcomeUnresolved {
		return nil, errors.Errorf("invalid resolution outcome %q", create.Outcome)
	}
	return s.driver.CreateResolution(ctx, create)
}

// ListResolutions returns audit records, newest first.
func (s *Store) ListResolutions(ctx context.Context, find *FindResolution) ([]*Resolution, error) {
	return s.driver.ListResolutions(ctx, find)
}

// GetResolutionStats aggregates the audit log.
func (s *Store) GetResolutionStats(ctx context.Context) (*ResolutionStats, error) {
	return s.driver.GetResolutionStats(ctx)
}

// DeleteResolutionsBefore prunes audit records created before the timestamp.
func (s *Store) DeleteResolutionsBefore(ctx context.Context, beforeTs int64) (int64, error) {
	return s.driver.DeleteResolutionsBefore(ctx, beforeTs)
}
