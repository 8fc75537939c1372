package moment

import "time"

// Moment is a single point in time at a given clock/timezone.
// It is an immutable value; all methods return new Moments.
type Moment struct {
	t time.Time
}

// At wraps a time.Time as a Moment.
func At(t time.Time) Moment {
	return Moment{t: t}
}

// FromSecs builds a Moment from Unix epoch seconds in the given location.
// A nil location means the local clock.
func FromSecs(secs int64, loc *time.Location) Moment {
	if loc == nil {
		loc = time.Local
	}
	return Moment{t: time.Unix(secs, 0).In(loc)}
}

// Time returns the underlying time.Time.
func (m Moment) Time() time.Time {
	return m.t
}

func (m Moment) Before(other Moment) bool {
	return m.t.Before(other.t)
}

func (m Moment) After(other Moment) bool {
	return m.t.After(other.t)
}

func (m Moment) Equal(other Moment) bool {
	return m.t.Equal(other.t)
}

// Floor aligns the moment down to the start of the enclosing grain unit.
// Weeks start on Monday, quarters on January/April/July/October.
func (m Moment) Floor(g Grain) Moment {
	t := m.t
	loc := t.Location()
	switch g {
	case Second:
		return At(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc))
	case Minute:
		return At(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc))
	case Hour:
		return At(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc))
	case Day:
		return At(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc))
	case Week:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return At(day.AddDate(0, 0, -offset))
	case Month:
		return At(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc))
	case Quarter:
		qm := time.Month((int(t.Month())-1)/3*3 + 1)
		return At(time.Date(t.Year(), qm, 1, 0, 0, 0, 0, loc))
	case Year:
		return At(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc))
	}
	return m
}

// Add steps the moment by n units of the given grain. Month, quarter and
// year steps are calendar-aware via AddDate; the rest are fixed durations.
func (m Moment) Add(g Grain, n int) Moment {
	switch g {
	case Second:
		return At(m.t.Add(time.Duration(n) * time.Second))
	case Minute:
		return At(m.t.Add(time.Duration(n) * time.Minute))
	case Hour:
		return At(m.t.Add(time.Duration(n) * time.Hour))
	case Day:
		return At(m.t.AddDate(0, 0, n))
	case Week:
		return At(m.t.AddDate(0, 0, 7*n))
	case Month:
		return At(m.t.AddDate(0, n, 0))
	case Quarter:
		return At(m.t.AddDate(0, 3*n, 0))
	case Year:
		return At(m.t.AddDate(n, 0, 0))
	}
	return m
}

// MarshalJSON encodes the moment as an RFC 3339 string.
func (m Moment) MarshalJSON() ([]byte, error) {
	return m.t.MarshalJSON()
}

// UnmarshalJSON decodes an RFC 3339 string.
func (m *Moment) UnmarshalJSON(data []byte) error {
	return m.t.UnmarshalJSON(data)
}
