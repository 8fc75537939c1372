package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timewalk/plugin/nlp/moment"
)

func TestFromSecs(t *testing.T) {
	ctx := FromSecs(0, time.UTC)
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), ctx.Reference.Start.Time())
	assert.Equal(t, moment.Second, ctx.Reference.Grain)
}

func TestForReference_DefaultWindow(t *testing.T) {
	now := moment.Starting(moment.At(time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)), moment.Second)
	ctx := ForReference(now)

	assert.Equal(t, time.Date(1976, 1, 1, 0, 0, 0, 0, time.UTC), ctx.Min.Start.Time())
	assert.Equal(t, time.Date(2076, 1, 1, 0, 0, 0, 0, time.UTC), ctx.Max.Start.Time())
	assert.Equal(t, moment.Year, ctx.Min.Grain)
}

func TestNew_ValidatesWindow(t *testing.T) {
	day := func(d int) moment.Interval {
		return moment.Starting(moment.At(time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)), moment.Day)
	}

	t.Run("ordered window is accepted", func(t *testing.T) {
		ctx, err := New(day(15), day(1), day(31))
		require.NoError(t, err)
		assert.Equal(t, day(15), ctx.Reference)
	})

	t.Run("reference before min is rejected", func(t *testing.T) {
		_, err := New(day(1), day(15), day(31))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("reference after max is rejected", func(t *testing.T) {
		_, err := New(day(31), day(1), day(15))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}
