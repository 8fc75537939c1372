// Package constraint provides the abstract temporal constraints produced by
// upstream recognizers and the lazy candidate walkers the resolution engine
// drives. A Constraint is a not-yet-anchored expression ("every Monday",
// "March", "at 17:00"); anchoring it to a reference interval yields a Walker
// whose two streams enumerate concrete candidate intervals on demand.
package constraint

import "github.com/hrygo/timewalk/plugin/nlp/moment"

// Bounds is the read-only view of the resolution context a walker needs: the
// reference anchor and the admissible min/max window. Candidates outside
// [Min.Start, Max.EndMoment()) terminate their stream.
type Bounds struct {
	Reference moment.Interval
	Min       moment.Interval
	Max       moment.Interval
}

// Stream is a pull-based lazy sequence of candidate intervals. It is
// stateful, non-restartable and must not be shared across goroutines.
type Stream struct {
	next func() (moment.Interval, bool)
}

// NewStream wraps a generator function as a Stream.
func NewStream(next func() (moment.Interval, bool)) *Stream {
	return &Stream{next: next}
}

// Next pulls the next candidate, or returns false when the stream is
// exhausted. Once exhausted a stream stays exhausted.
func (s *Stream) Next() (moment.Interval, bool) {
	if s.next == nil {
		return moment.Interval{}, false
	}
	iv, ok := s.next()
	if !ok {
		s.next = nil
		return moment.Interval{}, false
	}
	return iv, true
}

// Walker is the pair of candidate streams derived from a Constraint and a
// reference: Forward yields candidates at or after the reference in
// increasing start order (the candidate containing the reference comes
// first), Backward yields candidates strictly before it in decreasing start
// order. Each resolution call owns its walker; walkers are never reused.
type Walker struct {
	Forward  *Stream
	Backward *Stream
}

// Constraint is an abstract temporal expression that can enumerate ordered
// candidate intervals relative to a reference anchor.
type Constraint interface {
	ToWalker(reference moment.Interval, b Bounds) Walker
}

// boundedForward wraps a generator so the stream ends instead of producing a
// candidate past the max bound.
func boundedForward(b Bounds, next func() (moment.Interval, bool)) *Stream {
	limit := b.Max.EndMoment()
	return NewStream(func() (moment.Interval, bool) {
		iv, ok := next()
		if !ok || !iv.Start.Before(limit) {
			return moment.Interval{}, false
		}
		return iv, true
	})
}

// boundedBackward mirrors boundedForward for the min bound.
func boundedBackward(b Bounds, next func() (moment.Interval, bool)) *Stream {
	limit := b.Min.Start
	return NewStream(func() (moment.Interval, bool) {
		iv, ok := next()
		if !ok || iv.Start.Before(limit) {
			return moment.Interval{}, false
		}
		return iv, true
	})
}

// stepWalker builds a Walker for constraints whose candidates form a regular
// progression: origin is the first forward candidate (the one containing or
// first after the reference), step(origin, n) is the n-th candidate relative
// to it. Forward walks n = 0, 1, 2, …; backward walks n = -1, -2, ….
func stepWalker(b Bounds, origin moment.Interval, step func(origin moment.Interval, n int) moment.Interval) Walker {
	fwd, bwd := 0, -1
	return Walker{
		Forward: boundedForward(b, func() (moment.Interval, bool) {
			iv := step(origin, fwd)
			fwd++
			return iv, true
		}),
		Backward: boundedBackward(b, func() (moment.Interval, bool) {
			iv := step(origin, bwd)
			bwd--
			return iv, true
		}),
	}
}
