// Package resolve turns abstract semantic values into concrete outputs,
// anchored to a per-request reference point in time. It is the resolution
// stage of the extraction pipeline: the recognizer builds dimension values,
// this package picks one concrete candidate for each.
package resolve

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timewalk/plugin/nlp/constraint"
	"github.com/hrygo/timewalk/plugin/nlp/moment"
)

// defaultWindowYears is the span of the admissible resolution window derived
// by ForReference on each side of the reference year.
const defaultWindowYears = 50

// ErrInvalidWindow is returned by New when min, reference and max are not in
// order.
var ErrInvalidWindow = errors.New("resolution window must satisfy min <= reference <= max")

// Context is the per-request resolution configuration: the reference "now"
// anchor and the admissible min/max window. It carries no mutable state and
// may be shared by read-only reference across concurrent Resolve calls.
type Context struct {
	Reference moment.Interval
	Min       moment.Interval
	Max       moment.Interval
}

// ForReference builds a Context anchored at now, with the default window
// policy: the window spans defaultWindowYears years either side of the
// reference year.
func ForReference(now moment.Interval) *Context {
	year := now.Start.Floor(moment.Year)
	return &Context{
		Reference: now,
		Min:       moment.Starting(year.Add(moment.Year, -defaultWindowYears), moment.Year),
		Max:       moment.Starting(year.Add(moment.Year, defaultWindowYears), moment.Year),
	}
}

// FromSecs builds a Context anchored at the given Unix epoch second, at
// second granularity, on the given clock (nil means the local clock).
// Epoch values in at least the 1970–2038 range are supported on every
// platform; 64-bit time representations extend that range.
func FromSecs(secs int64, loc *time.Location) *Context {
	anchor := moment.Starting(moment.FromSecs(secs, loc), moment.Second)
	return ForReference(anchor)
}

// New builds a Context from explicit reference, min and max intervals. The
// window must be ordered: min.start <= reference.start <= max.start. Unlike
// ForReference this constructor trusts the caller for everything else.
func New(now, min, max moment.Interval) (*Context, error) {
	if now.Start.Before(min.Start) || max.Start.Before(now.Start) {
		return nil, errors.WithStack(ErrInvalidWindow)
	}
	return &Context{Reference: now, Min: min, Max: max}, nil
}

// bounds is the read-only view handed to constraint walkers.
func (c *Context) bounds() constraint.Bounds {
	return constraint.Bounds{Reference: c.Reference, Min: c.Min, Max: c.Max}
}
