package resolve

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timewalk/plugin/nlp/constraint"
	"github.com/hrygo/timewalk/plugin/nlp/dimension"
	"github.com/hrygo/timewalk/plugin/nlp/moment"
	"github.com/hrygo/timewalk/plugin/nlp/output"
)

// scripted is a constraint whose walker replays fixed candidate lists and
// counts how many elements each stream handed out.
type scripted struct {
	forward  []moment.Interval
	backward []moment.Interval

	forwardPulled  int
	backwardPulled int
}

func (s *scripted) ToWalker(moment.Interval, constraint.Bounds) constraint.Walker {
	fwd, bwd := 0, 0
	return constraint.Walker{
		Forward: constraint.NewStream(func() (moment.Interval, bool) {
			if fwd >= len(s.forward) {
				return moment.Interval{}, false
			}
			iv := s.forward[fwd]
			fwd++
			s.forwardPulled = fwd
			return iv, true
		}),
		Backward: constraint.NewStream(func() (moment.Interval, bool) {
			if bwd >= len(s.backward) {
				return moment.Interval{}, false
			}
			iv := s.backward[bwd]
			bwd++
			s.backwardPulled = bwd
			return iv, true
		}),
	}
}

var refTime = time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)

func testContext() *Context {
	return ForReference(moment.Starting(moment.At(refTime), moment.Second))
}

func dayAt(t time.Time) moment.Interval {
	return moment.Starting(moment.At(t).Floor(moment.Day), moment.Day)
}

func datetimeValue(c constraint.Constraint) dimension.DatetimeValue {
	return dimension.DatetimeValue{Constraint: c, DatetimeKind: dimension.DateTime}
}

func TestResolve_PlainDatetime(t *testing.T) {
	ctx := testContext()
	c := &scripted{forward: []moment.Interval{dayAt(refTime.AddDate(0, 0, 2))}}

	got, ok := NewResolver(nil).Resolve(ctx, datetimeValue(c))
	require.True(t, ok)

	dt, isDatetime := got.(output.Datetime)
	require.True(t, isDatetime)
	assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), dt.Moment.Time())
	assert.Equal(t, moment.Day, dt.Grain)
	assert.Equal(t, dimension.DateTime, dt.DatetimeKind)
}

func TestResolve_NotImmediateSkipsIntersectingCandidate(t *testing.T) {
	ctx := testContext()
	today := dayAt(refTime)
	nextWeek := dayAt(refTime.AddDate(0, 0, 7))
	c := &scripted{forward: []moment.Interval{today, nextWeek}}

	value := datetimeValue(c)
	value.Form.NotImmediate = true

	got, ok := NewResolver(nil).Resolve(ctx, value)
	require.True(t, ok)
	dt := got.(output.Datetime)
	assert.Equal(t, nextWeek.Start.Time(), dt.Moment.Time(),
		"the candidate containing the reference must be skipped")
	assert.Equal(t, 2, c.forwardPulled)
}

func TestResolve_ImmediateKeepsFirstCandidate(t *testing.T) {
	ctx := testContext()
	today := dayAt(refTime)
	c := &scripted{forward: []moment.Interval{today, dayAt(refTime.AddDate(0, 0, 7))}}

	got, ok := NewResolver(nil).Resolve(ctx, datetimeValue(c))
	require.True(t, ok)
	assert.Equal(t, today.Start.Time(), got.(output.Datetime).Moment.Time())
	assert.Equal(t, 1, c.forwardPulled, "only one forward pull without the skip")
}

func TestResolve_NotImmediateSkipLeavesFutureCandidatesAlone(t *testing.T) {
	ctx := testContext()
	tomorrow := dayAt(refTime.AddDate(0, 0, 1))
	c := &scripted{forward: []moment.Interval{tomorrow, dayAt(refTime.AddDate(0, 0, 8))}}

	value := datetimeValue(c)
	value.Form.NotImmediate = true

	got, ok := NewResolver(nil).Resolve(ctx, value)
	require.True(t, ok)
	assert.Equal(t, tomorrow.Start.Time(), got.(output.Datetime).Moment.Time(),
		"a non-intersecting first candidate is kept even with not_immediate")
}

func TestResolve_ForwardPreferredOverBackward(t *testing.T) {
	ctx := testContext()
	c := &scripted{
		forward:  []moment.Interval{dayAt(refTime.AddDate(0, 0, 2))},
		backward: []moment.Interval{dayAt(refTime.AddDate(0, 0, -2))},
	}

	_, ok := NewResolver(nil).Resolve(ctx, datetimeValue(c))
	require.True(t, ok)
	assert.Equal(t, 0, c.backwardPulled, "backward must not be consulted")
}

func TestResolve_BackwardFallback(t *testing.T) {
	ctx := testContext()
	lastMonth := dayAt(refTime.AddDate(0, -1, 0))
	c := &scripted{backward: []moment.Interval{lastMonth}}

	got, ok := NewResolver(nil).Resolve(ctx, datetimeValue(c))
	require.True(t, ok)
	assert.Equal(t, lastMonth.Start.Time(), got.(output.Datetime).Moment.Time())
}

func TestResolve_SkipThenForwardExhaustedFallsBackward(t *testing.T) {
	ctx := testContext()
	lastMonth := dayAt(refTime.AddDate(0, -1, 0))
	c := &scripted{
		forward:  []moment.Interval{dayAt(refTime)},
		backward: []moment.Interval{lastMonth},
	}

	value := datetimeValue(c)
	value.Form.NotImmediate = true

	got, ok := NewResolver(nil).Resolve(ctx, value)
	require.True(t, ok)
	assert.Equal(t, lastMonth.Start.Time(), got.(output.Datetime).Moment.Time())
}

func TestResolve_ExhaustionReturnsNothing(t *testing.T) {
	ctx := testContext()
	value := datetimeValue(constraint.Empty())

	got, ok := NewResolver(nil).Resolve(ctx, value)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestResolve_DirectionBounds(t *testing.T) {
	ctx := testContext()
	start := moment.At(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
	end := start.Add(moment.Day, 3)

	tests := []struct {
		name       string
		candidate  moment.Interval
		bound      dimension.Bound
		direction  dimension.DirectionKind
		wantKind   output.IntervalKind
		wantAnchor moment.Moment
	}{
		{
			name:       "start bound after",
			candidate:  moment.Span(start, end, moment.Day),
			bound:      dimension.Bound{Kind: dimension.BoundStart},
			direction:  dimension.After,
			wantKind:   output.IntervalAfter,
			wantAnchor: start,
		},
		{
			name:       "end bound before",
			candidate:  moment.Span(start, end, moment.Day),
			bound:      dimension.Bound{Kind: dimension.BoundEnd},
			direction:  dimension.Before,
			wantKind:   output.IntervalBefore,
			wantAnchor: end,
		},
		{
			name:       "end bound without explicit end derives one",
			candidate:  moment.Starting(start, moment.Day),
			bound:      dimension.Bound{Kind: dimension.BoundEnd},
			direction:  dimension.After,
			wantKind:   output.IntervalAfter,
			wantAnchor: start.Add(moment.Day, 1),
		},
		{
			name:       "only-interval end bound with explicit end",
			candidate:  moment.Span(start, end, moment.Day),
			bound:      dimension.Bound{Kind: dimension.BoundEnd, OnlyInterval: true},
			direction:  dimension.After,
			wantKind:   output.IntervalAfter,
			wantAnchor: end,
		},
		{
			name:       "only-interval end bound without explicit end anchors at start",
			candidate:  moment.Starting(start, moment.Day),
			bound:      dimension.Bound{Kind: dimension.BoundEnd, OnlyInterval: true},
			direction:  dimension.After,
			wantKind:   output.IntervalAfter,
			wantAnchor: start,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &scripted{forward: []moment.Interval{tt.candidate}}
			value := datetimeValue(c)
			value.Direction = &dimension.BoundedDirection{Bound: tt.bound, Direction: tt.direction}

			got, ok := NewResolver(nil).Resolve(ctx, value)
			require.True(t, ok)
			di, isInterval := got.(output.DatetimeInterval)
			require.True(t, isInterval)
			assert.Equal(t, tt.wantKind, di.Kind)
			require.NotNil(t, di.Anchor)
			assert.Equal(t, tt.wantAnchor.Time(), di.Anchor.Moment.Time())
			assert.Equal(t, di.Anchor.DatetimeKind, di.DatetimeKind,
				"outer datetime kind is copied from the payload")
		})
	}
}

func TestResolve_BetweenFromExplicitEnd(t *testing.T) {
	ctx := testContext()
	start := moment.At(time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC))
	end := start.Add(moment.Hour, 2)
	c := &scripted{forward: []moment.Interval{moment.Span(start, end, moment.Minute)}}

	got, ok := NewResolver(nil).Resolve(ctx, datetimeValue(c))
	require.True(t, ok)
	di := got.(output.DatetimeInterval)
	assert.Equal(t, output.IntervalBetween, di.Kind)
	require.NotNil(t, di.Between)
	assert.Equal(t, start.Time(), di.Between.Start.Time())
	assert.Equal(t, end.Time(), di.Between.End.Time())
	assert.Equal(t, dimension.DateTime, di.DatetimeKind, "between keeps the value's datetime kind")
}

func TestResolve_SpanAnomalyWarnsButResolves(t *testing.T) {
	ctx := testContext()
	start := moment.At(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
	end := start.Add(moment.Day, 2)
	c := &scripted{forward: []moment.Interval{moment.Span(start, end, moment.Day)}}

	value := datetimeValue(c)
	value.DatetimeKind = dimension.Time

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got, ok := NewResolver(logger).Resolve(ctx, value)
	require.True(t, ok, "the anomaly is a warning, not a failure")
	di := got.(output.DatetimeInterval)
	assert.Equal(t, output.IntervalBetween, di.Kind)
	assert.Contains(t, buf.String(), "spanning interval")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestResolve_NonTemporalPassthrough(t *testing.T) {
	ctx := testContext()
	r := NewResolver(nil)

	tests := []struct {
		name  string
		value dimension.Dimension
		want  output.Output
	}{
		{"integer", dimension.IntegerValue{Value: 42}, output.Integer{Value: 42}},
		{"float", dimension.FloatValue{Value: 4.25}, output.Float{Value: 4.25}},
		{"ordinal", dimension.OrdinalValue{Value: 3}, output.Ordinal{Value: 3}},
		{
			"amount of money",
			dimension.AmountOfMoneyValue{Value: 42.5, Precision: dimension.Approximate, Unit: "USD"},
			output.AmountOfMoney{Value: 42.5, Precision: dimension.Approximate, Unit: "USD"},
		},
		{
			"temperature",
			dimension.TemperatureValue{Value: 21.5, Unit: "celsius", Latent: true},
			output.Temperature{Value: 21.5, Unit: "celsius", Latent: true},
		},
		{
			"duration",
			dimension.DurationValue{Period: dimension.Period{moment.Hour: 2}, Precision: dimension.Exact},
			output.Duration{Period: dimension.Period{moment.Hour: 2}, Precision: dimension.Exact},
		},
		{"percentage", dimension.PercentageValue{Value: 15}, output.Percentage{Value: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(ctx, tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownKind(t *testing.T) {
	ctx := testContext()
	got, ok := NewResolver(nil).Resolve(ctx, dimension.UnknownValue{Name: "phone-number"})
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestResolve_Deterministic(t *testing.T) {
	value := datetimeValue(constraint.DayOfWeek(time.Monday))
	r := NewResolver(nil)

	first, ok := r.Resolve(testContext(), value)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := r.Resolve(testContext(), value)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestResolve_NextMondayFromEpoch(t *testing.T) {
	// 1970-01-01 is a Thursday; the first on-or-after Monday is Jan 5.
	ctx := FromSecs(0, time.UTC)
	value := datetimeValue(constraint.DayOfWeek(time.Monday))
	value.DatetimeKind = dimension.Date

	got, ok := NewResolver(nil).Resolve(ctx, value)
	require.True(t, ok)
	dt := got.(output.Datetime)
	assert.Equal(t, time.Date(1970, 1, 5, 0, 0, 0, 0, time.UTC), dt.Moment.Time())
	assert.Equal(t, moment.Day, dt.Grain)
}
