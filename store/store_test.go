package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timewalk/internal/profile"
	"github.com/hrygo/timewalk/store"
	"github.com/hrygo/timewalk/store/db"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "timewalk_test.db"),
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateResolution(ctx, &store.Resolution{
		CreatedTs:  100,
		Kind:       "datetime",
		Payload:    `{"kind":"datetime"}`,
		Outcome:    store.OutcomeResolved,
		OutputKind: "datetime",
		LatencyUS:  42,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "an ID is assigned when absent")

	_, err = s.CreateResolution(ctx, &store.Resolution{
		CreatedTs: 200,
		Kind:      "phone-number",
		Payload:   `{"kind":"phone-number"}`,
		Outcome:   store.OutcomeUnresolved,
	})
	require.NoError(t, err)

	list, err := s.ListResolutions(ctx, &store.FindResolution{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "phone-number", list[0].Kind, "newest first")

	kind := "datetime"
	list, err = s.ListResolutions(ctx, &store.FindResolution{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, store.OutcomeResolved, list[0].Outcome)
	assert.Equal(t, int64(42), list[0].LatencyUS)

	limit := 1
	list, err = s.ListResolutions(ctx, &store.FindResolution{Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_RejectsInvalidOutcome(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateResolution(context.Background(), &store.Resolution{
		Kind:    "datetime",
		Outcome: "maybe",
	})
	assert.Error(t, err)
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i, outcome := range []store.ResolutionOutcome{
		store.OutcomeResolved, store.OutcomeResolved, store.OutcomeUnresolved,
	} {
		_, err := s.CreateResolution(ctx, &store.Resolution{
			CreatedTs: int64(i),
			Kind:      "datetime",
			Outcome:   outcome,
		})
		require.NoError(t, err)
	}
	_, err := s.CreateResolution(ctx, &store.Resolution{
		CreatedTs: 10,
		Kind:      "ordinal",
		Outcome:   store.OutcomeResolved,
	})
	require.NoError(t, err)

	stats, err := s.GetResolutionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Resolved)
	assert.Equal(t, int64(1), stats.Unresolved)
	assert.Equal(t, int64(3), stats.ByKind["datetime"])
	assert.Equal(t, int64(1), stats.ByKind["ordinal"])
}

func TestStore_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for ts := int64(1); ts <= 3; ts++ {
		_, err := s.CreateResolution(ctx, &store.Resolution{
			CreatedTs: ts,
			Kind:      "datetime",
			Outcome:   store.OutcomeResolved,
		})
		require.NoError(t, err)
	}

	n, err := s.DeleteResolutionsBefore(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := s.ListResolutions(ctx, &store.FindResolution{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
