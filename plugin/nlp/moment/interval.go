package moment

// Interval is a half-open span of calendar time [Start, End) aligned to a
// Grain. End may be nil, in which case the interval occupies exactly one
// grain unit starting at Start (see EndMoment).
type Interval struct {
	Start Moment  `json:"start"`
	End   *Moment `json:"end,omitempty"`
	Grain Grain   `json:"grain"`
}

// Starting returns a single-grain interval beginning at m.
func Starting(m Moment, g Grain) Interval {
	return Interval{Start: m, Grain: g}
}

// Span returns an interval with an explicit end.
func Span(start, end Moment, g Grain) Interval {
	return Interval{Start: start, End: &end, Grain: g}
}

// EndMoment returns the explicit end when present, otherwise the start
// advanced by one grain unit.
func (iv Interval) EndMoment() Moment {
	if iv.End != nil {
		return *iv.End
	}
	return iv.Start.Add(iv.Grain, 1)
}

// Intersect returns the overlap of the two intervals, or false when they are
// disjoint. The result carries the finer of the two grains. When the overlap
// is exactly a single-grain operand's implicit span, that operand is returned
// as-is so point intervals stay points; otherwise the result has an explicit
// end.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.EndMoment()
	if otherEnd := other.EndMoment(); otherEnd.Before(end) {
		end = otherEnd
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	g := Finer(iv.Grain, other.Grain)
	if iv.End == nil && iv.Grain == g && start.Equal(iv.Start) && end.Equal(iv.EndMoment()) {
		return iv, true
	}
	if other.End == nil && other.Grain == g && start.Equal(other.Start) && end.Equal(other.EndMoment()) {
		return other, true
	}
	return Span(start, end, g), true
}

// Contains reports whether the moment falls inside [Start, EndMoment()).
func (iv Interval) Contains(m Moment) bool {
	return !m.Before(iv.Start) && m.Before(iv.EndMoment())
}
