package resolve

import (
	"log/slog"

	"github.com/hrygo/timewalk/plugin/nlp/dimension"
	"github.com/hrygo/timewalk/plugin/nlp/output"
)

// Resolver maps abstract semantic values to concrete outputs. It is
// stateless apart from its logger and safe for concurrent use.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger falls back to slog.Default().
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve produces the concrete output for one abstract value, or false when
// the value's kind is unrecognized or no candidate interval exists in either
// time direction. It never mutates ctx or dim; for a fixed ctx and dim the
// result is deterministic.
func (r *Resolver) Resolve(ctx *Context, dim dimension.Dimension) (output.Output, bool) {
	switch v := dim.(type) {
	case dimension.DatetimeValue:
		return r.resolveDatetime(ctx, v)
	case dimension.IntegerValue:
		return output.Integer{Value: v.Value}, true
	case dimension.FloatValue:
		return output.Float{Value: v.Value}, true
	case dimension.OrdinalValue:
		return output.Ordinal{Value: v.Value}, true
	case dimension.AmountOfMoneyValue:
		return output.AmountOfMoney{Value: v.Value, Precision: v.Precision, Unit: v.Unit}, true
	case dimension.TemperatureValue:
		return output.Temperature{Value: v.Value, Unit: v.Unit, Latent: v.Latent}, true
	case dimension.DurationValue:
		return output.Duration{Period: v.Period, Precision: v.Precision}, true
	case dimension.PercentageValue:
		return output.Percentage{Value: v.Value}, true
	default:
		return nil, false
	}
}

// resolveDatetime drives the constraint's walker and applies the selection
// policy: forward before backward, with the not-immediate skip discarding at
// most the first forward candidate. At most two forward pulls and one
// backward pull happen per call.
func (r *Resolver) resolveDatetime(ctx *Context, v dimension.DatetimeValue) (output.Output, bool) {
	if v.Constraint == nil {
		return nil, false
	}
	walker := v.Constraint.ToWalker(ctx.Reference, ctx.bounds())

	candidate, ok := walker.Forward.Next()
	if ok && v.Form.NotImmediate {
		if _, hit := candidate.Intersect(ctx.Reference); hit {
			candidate, ok = walker.Forward.Next()
		}
	}
	if !ok {
		candidate, ok = walker.Backward.Next()
	}
	if !ok {
		return nil, false
	}

	if v.Direction != nil {
		anchor := candidate.Start
		switch {
		case v.Direction.Bound.Kind == dimension.BoundEnd && v.Direction.Bound.OnlyInterval:
			if candidate.End != nil {
				anchor = *candidate.End
			}
		case v.Direction.Bound.Kind == dimension.BoundEnd:
			anchor = candidate.EndMoment()
		}
		payload := output.Datetime{
			Moment:       anchor,
			Grain:        candidate.Grain,
			Precision:    v.Precision,
			Latent:       v.Latent,
			DatetimeKind: v.DatetimeKind,
		}
		kind := output.IntervalAfter
		if v.Direction.Direction == dimension.Before {
			kind = output.IntervalBefore
		}
		// The outer datetime kind comes from the payload, not the value.
		return output.DatetimeInterval{
			Kind:         kind,
			Anchor:       &payload,
			DatetimeKind: payload.DatetimeKind,
		}, true
	}

	if candidate.End != nil {
		if v.DatetimeKind == dimension.Date || v.DatetimeKind == dimension.Time {
			// Likely a recognizer inconsistency: a point kind resolved to a
			// genuine span. Resolution proceeds regardless.
			r.logger.Warn("datetime kind resolved to a spanning interval",
				slog.String("datetime_kind", v.DatetimeKind.String()),
				slog.Time("start", candidate.Start.Time()),
				slog.Time("end", candidate.End.Time()))
		}
		return output.DatetimeInterval{
			Kind: output.IntervalBetween,
			Between: &output.Between{
				Start:     candidate.Start,
				End:       *candidate.End,
				Precision: v.Precision,
				Latent:    v.Latent,
			},
			DatetimeKind: v.DatetimeKind,
		}, true
	}

	return output.Datetime{
		Moment:       candidate.Start,
		Grain:        candidate.Grain,
		Precision:    v.Precision,
		Latent:       v.Latent,
		DatetimeKind: v.DatetimeKind,
	}, true
}
