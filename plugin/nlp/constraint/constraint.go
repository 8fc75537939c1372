package constraint

import (
	"time"

	"github.com/hrygo/timewalk/plugin/nlp/moment"
)

// cycleConstraint enumerates every grain-aligned interval (every second,
// every day, every month, …).
type cycleConstraint struct {
	grain moment.Grain
}

// Cycle returns a constraint matching every aligned interval of the grain.
func Cycle(g moment.Grain) Constraint {
	return cycleConstraint{grain: g}
}

func (c cycleConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	origin := moment.Starting(reference.Start.Floor(c.grain), c.grain)
	return stepWalker(b, origin, func(o moment.Interval, n int) moment.Interval {
		return moment.Starting(o.Start.Add(c.grain, n), c.grain)
	})
}

// dayOfWeekConstraint enumerates every calendar day falling on a weekday.
type dayOfWeekConstraint struct {
	weekday time.Weekday
}

// DayOfWeek returns a constraint matching every day falling on w. The day
// containing the reference is a forward candidate when it matches.
func DayOfWeek(w time.Weekday) Constraint {
	return dayOfWeekConstraint{weekday: w}
}

func (c dayOfWeekConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	day := reference.Start.Floor(moment.Day)
	delta := (int(c.weekday) - int(day.Time().Weekday()) + 7) % 7
	origin := moment.Starting(day.Add(moment.Day, delta), moment.Day)
	return stepWalker(b, origin, func(o moment.Interval, n int) moment.Interval {
		return moment.Starting(o.Start.Add(moment.Week, n), moment.Day)
	})
}

// monthConstraint enumerates a given month of every year.
type monthConstraint struct {
	month time.Month
}

// Month returns a constraint matching month m of every year.
func Month(m time.Month) Constraint {
	return monthConstraint{month: m}
}

func (c monthConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	year := reference.Start.Floor(moment.Year)
	cand := moment.Starting(year.Add(moment.Month, int(c.month)-1), moment.Month)
	if !cand.EndMoment().After(reference.Start) {
		cand = moment.Starting(cand.Start.Add(moment.Year, 1), moment.Month)
	}
	return stepWalker(b, cand, func(o moment.Interval, n int) moment.Interval {
		return moment.Starting(o.Start.Add(moment.Year, n), moment.Month)
	})
}

// hourMinuteConstraint enumerates a fixed clock time of every day.
type hourMinuteConstraint struct {
	hour, minute int
}

// HourMinute returns a constraint matching h:m of every day, at minute grain.
func HourMinute(hour, minute int) Constraint {
	return hourMinuteConstraint{hour: hour, minute: minute}
}

func (c hourMinuteConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	t := reference.Start.Floor(moment.Day).Time()
	at := moment.At(time.Date(t.Year(), t.Month(), t.Day(), c.hour, c.minute, 0, 0, t.Location()))
	cand := moment.Starting(at, moment.Minute)
	if !cand.EndMoment().After(reference.Start) {
		cand = moment.Starting(cand.Start.Add(moment.Day, 1), moment.Minute)
	}
	return stepWalker(b, cand, func(o moment.Interval, n int) moment.Interval {
		return moment.Starting(o.Start.Add(moment.Day, n), moment.Minute)
	})
}

// monthDayConstraint enumerates day d of every month, skipping months that
// do not have it (no Feb 30).
type monthDayConstraint struct {
	day int
}

// MonthDay returns a constraint matching day d of every month.
func MonthDay(d int) Constraint {
	return monthDayConstraint{day: d}
}

func (c monthDayConstraint) dayIn(month moment.Moment) (moment.Interval, bool) {
	t := month.Time()
	cand := time.Date(t.Year(), t.Month(), c.day, 0, 0, 0, 0, t.Location())
	if cand.Month() != t.Month() {
		return moment.Interval{}, false
	}
	return moment.Starting(moment.At(cand), moment.Day), true
}

func (c monthDayConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	fwdMonth := reference.Start.Floor(moment.Month)
	forward := func() (moment.Interval, bool) {
		for {
			cand, ok := c.dayIn(fwdMonth)
			fwdMonth = fwdMonth.Add(moment.Month, 1)
			if ok && cand.EndMoment().After(reference.Start) {
				return cand, true
			}
			if fwdMonth.After(b.Max.EndMoment()) {
				return moment.Interval{}, false
			}
		}
	}
	bwdMonth := reference.Start.Floor(moment.Month)
	backward := func() (moment.Interval, bool) {
		for {
			cand, ok := c.dayIn(bwdMonth)
			bwdMonth = bwdMonth.Add(moment.Month, -1)
			if ok && !cand.EndMoment().After(reference.Start) {
				return cand, true
			}
			if bwdMonth.Before(b.Min.Start) {
				return moment.Interval{}, false
			}
		}
	}
	return Walker{
		Forward:  boundedForward(b, forward),
		Backward: boundedBackward(b, backward),
	}
}

// shiftConstraint offsets every candidate of an inner constraint by a fixed
// number of grains ("two days after …").
type shiftConstraint struct {
	inner Constraint
	grain moment.Grain
	n     int
}

// Shift returns a constraint whose candidates are inner's shifted by n
// grains.
func Shift(inner Constraint, g moment.Grain, n int) Constraint {
	return shiftConstraint{inner: inner, grain: g, n: n}
}

func (c shiftConstraint) ToWalker(reference moment.Interval, b Bounds) Walker {
	// Anchor the inner walker at the un-shifted reference so "two days after
	// every Monday" still keys off Mondays near the reference.
	anchor := moment.Starting(reference.Start.Add(c.grain, -c.n), reference.Grain)
	inner := c.inner.ToWalker(anchor, b)
	shift := func(iv moment.Interval) moment.Interval {
		out := moment.Starting(iv.Start.Add(c.grain, c.n), iv.Grain)
		if iv.End != nil {
			end := iv.End.Add(c.grain, c.n)
			out = moment.Span(out.Start, end, iv.Grain)
		}
		return out
	}
	return Walker{
		Forward: NewStream(func() (moment.Interval, bool) {
			iv, ok := inner.Forward.Next()
			if !ok {
				return moment.Interval{}, false
			}
			return shift(iv), true
		}),
		Backward: NewStream(func() (moment.Interval, bool) {
			iv, ok := inner.Backward.Next()
			if !ok {
				return moment.Interval{}, false
			}
			return shift(iv), true
		}),
	}
}

// emptyConstraint produces no candidates in either direction.
type emptyConstraint struct{}

// Empty returns a constraint with no candidates at all.
func Empty() Constraint {
	return emptyConstraint{}
}

func (emptyConstraint) ToWalker(moment.Interval, Bounds) Walker {
	return Walker{
		Forward:  NewStream(nil),
		Backward: NewStream(nil),
	}
}
