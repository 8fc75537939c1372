// Package sqlite implements the store driver on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	// SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/timewalk/internal/profile"
	"github.com/hrygo/timewalk/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolution (
	id TEXT PRIMARY KEY,
	created_ts BIGINT NOT NULL,
	kind TEXT NOT NULL,
	payload TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	output_kind TEXT NOT NULL DEFAULT '',
	latency_us BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_resolution_created_ts ON resolution (created_ts);
CREATE INDEX IF NOT EXISTS idx_resolution_kind ON resolution (kind);
`

// DB is the sqlite-backed store driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the database named by the profile DSN.
func NewDB(profile *profile.Profile) (*DB, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}
	// Busy timeout keeps concurrent audit writes from failing on lock
	// contention; WAL lets readers proceed during writes.
	dsn := profile.DSN + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", profile.DSN)
	}
	return &DB{db: sqlDB, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

// Migrate applies the schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) CreateResolution(ctx context.Context, create *store.Resolution) (*store.Resolution, error) {
	stmt := `
		INSERT INTO resolution (id, created_ts, kind, payload, outcome, output_kind, latency_us)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.CreatedTs,
		create.Kind,
		create.Payload,
		string(create.Outcome),
		create.OutputKind,
		create.LatencyUS,
	); err != nil {
		return nil, errors.Wrap(err, "insert resolution")
	}
	return create, nil
}

func (d *DB) ListResolutions(ctx context.Context, find *store.FindResolution) ([]*store.Resolution, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Kind != nil {
		where, args = append(where, "kind = ?"), append(args, *find.Kind)
	}
	if find.Outcome != nil {
		where, args = append(where, "outcome = ?"), append(args, string(*find.Outcome))
	}
	stmt := `
		SELECT id, created_ts, kind, payload, outcome, output_kind, latency_us
		FROM resolution
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id
	`
	if find.Limit != nil {
		stmt += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list resolutions")
	}
	defer rows.Close()

	list := []*store.Resolution{}
	for rows.Next() {
		var r store.Resolution
		var outcome string
		if err := rows.Scan(&r.ID, &r.CreatedTs, &r.Kind, &r.Payload, &outcome, &r.OutputKind, &r.LatencyUS); err != nil {
			return nil, errors.Wrap(err, "scan resolution")
		}
		r.Outcome = store.ResolutionOutcome(outcome)
		list = append(list, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate resolutions")
	}
	return list, nil
}

func (d *DB) GetResolutionStats(ctx context.Context) (*store.ResolutionStats, error) {
	stats := &store.ResolutionStats{ByKind: map[string]int64{}}

	rows, err := d.db.QueryContext(ctx, `
		SELECT kind, outcome, COUNT(*)
		FROM resolution
		GROUP BY kind, outcome
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query resolution stats")
	}
	defer rows.Close()

	for rows.Next() {
		var kind, outcome string
		var count int64
		if err := rows.Scan(&kind, &outcome, &count); err != nil {
			return nil, errors.Wrap(err, "scan resolution stats")
		}
		stats.Total += count
		stats.ByKind[kind] += count
		if store.ResolutionOutcome(outcome) == store.OutcomeResolved {
			stats.Resolved += count
		} else {
			stats.Unresolved += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate resolution stats")
	}
	return stats, nil
}

func (d *DB) DeleteResolutionsBefore(ctx context.Context, beforeTs int64) (int64, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM resolution WHERE created_ts < ?", beforeTs)
	if err != nil {
		return 0, errors.Wrap(err, "delete resolutions")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}

// Ensure DB implements the store driver.
var _ store.Driver = (*DB)(nil)
