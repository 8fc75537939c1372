package constraint

import "github.com/hrygo/timewalk/plugin/nlp/moment"

// intersectConstraint matches the overlap of an outer and an inner
// constraint ("a Monday in March"). The outer constraint should be the
// coarser of the two; its candidates are probed with a fresh inner walker
// each.
type intersectConstraint struct {
	outer, inner Constraint
}

// Intersect returns a constraint matching the overlap of outer and inner
// candidates. outer is expected to be the coarser constraint.
func Intersect(outer, inner Constraint) Constraint {
	return intersectConstraint{outer: outer, inner: inner}
}

// hitsWithin collects the intersections of inner candidates with the outer
// candidate o, anchored at anchor, in increasing start order.
func (c intersectConstraint) hitsWithin(o, anchor moment.Interval, b Bounds) []moment.Interval {
	var out []moment.Interval
	sub := c.inner.ToWalker(anchor, b)
	for {
		iv, ok := sub.Forward.Next()
		if !ok || !iv.Start.Before(o.EndMoment()) {
			return out
		}
		if hit, ok := iv.Intersect(o); ok {
			out = append(out, hit)
		}
	}
}

func (c intersectConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	// Forward and backward drive independent outer walkers since streams are
	// not restartable.
	fwdOuter := c.outer.ToWalker(reference, b)
	var fwdQueue []moment.Interval
	forward := func() (moment.Interval, bool) {
		for len(fwdQueue) == 0 {
			o, ok := fwdOuter.Forward.Next()
			if !ok {
				return moment.Interval{}, false
			}
			// Inside the candidate containing the reference, only hits at or
			// after the reference belong to the forward stream.
			anchor := o
			if o.Contains(reference.Start) {
				anchor = reference
			}
			fwdQueue = c.hitsWithin(o, anchor, b)
		}
		iv := fwdQueue[0]
		fwdQueue = fwdQueue[1:]
		return iv, true
	}

	bwdOuter := c.outer.ToWalker(reference, b)
	var bwdQueue []moment.Interval
	bwdPrimed := false
	backward := func() (moment.Interval, bool) {
		if !bwdPrimed {
			bwdPrimed = true
			// Hits before the reference inside the reference-containing outer
			// candidate come first, then earlier outer candidates.
			if o, ok := bwdOuter.Forward.Next(); ok && o.Contains(reference.Start) {
				for _, hit := range c.hitsWithin(o, o, b) {
					if !hit.EndMoment().After(reference.Start) {
						bwdQueue = append([]moment.Interval{hit}, bwdQueue...)
					}
				}
			}
		}
		for len(bwdQueue) == 0 {
			o, ok := bwdOuter.Backward.Next()
			if !ok {
				return moment.Interval{}, false
			}
			hits := c.hitsWithin(o, o, b)
			for i := len(hits) - 1; i >= 0; i-- {
				bwdQueue = append(bwdQueue, hits[i])
			}
		}
		iv := bwdQueue[0]
		bwdQueue = bwdQueue[1:]
		return iv, true
	}

	return Walker{
		Forward:  NewStream(forward),
		Backward: NewStream(backward),
	}
}

// spanConstraint pairs candidates of a "from" and a "to" constraint into
// explicit spans ("from 3pm to 5pm").
type spanConstraint struct {
	from, to  Constraint
	inclusive bool
}

// Span returns a constraint pairing each from candidate with the first to
// candidate after it. When inclusive is true the span runs through the end
// of the to candidate, otherwise up to its start.
func Span(from, to Constraint, inclusive bool) Constraint {
	return spanConstraint{from: from, to: to, inclusive: inclusive}
}

// pair finds the closing candidate for f and builds the span.
func (c spanConstraint) pair(f moment.Interval, b Bounds) (moment.Interval, bool) {
	sub := c.to.ToWalker(f, b)
	for {
		t, ok := sub.Forward.Next()
		if !ok {
			return moment.Interval{}, false
		}
		if !t.Start.After(f.Start) {
			continue
		}
		end := t.Start
		if c.inclusive {
			end = t.EndMoment()
		}
		return moment.Span(f.Start, end, moment.Finer(f.Grain, t.Grain)), true
	}
}

func (c spanConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	from := c.from.ToWalker(reference, b)
	paired := func(s *Stream) func() (moment.Interval, bool) {
		return func() (moment.Interval, bool) {
			for {
				f, ok := s.Next()
				if !ok {
					return moment.Interval{}, false
				}
				if span, ok := c.pair(f, b); ok {
					return span, true
				}
			}
		}
	}
	return Walker{
		Forward:  NewStream(paired(from.Forward)),
		Backward: NewStream(paired(from.Backward)),
	}
}
