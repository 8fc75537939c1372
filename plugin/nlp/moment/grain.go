// Package moment provides the calendar primitives used by the resolution
// pipeline: a Moment is a single point in time at a clock/timezone, an
// Interval is a half-open span [start, end) aligned to a Grain.
//
// All arithmetic is calendar-aware (months and years step via AddDate, weeks
// floor to Monday) so that constraint walkers can enumerate candidates
// without drifting across DST transitions or month-length boundaries.
package moment

import "fmt"

// Grain is the unit of calendar granularity an Interval is aligned to,
// ordered fine to coarse.
type Grain int

const (
	Second Grain = iota
	Minute
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

var grainNames = map[Grain]string{
	Second:  "second",
	Minute:  "minute",
	Hour:    "hour",
	Day:     "day",
	Week:    "week",
	Month:   "month",
	Quarter: "quarter",
	Year:    "year",
}

func (g Grain) String() string {
	if name, ok := grainNames[g]; ok {
		return name
	}
	return fmt.Sprintf("grain(%d)", int(g))
}

// MarshalJSON encodes the grain as its lowercase name.
func (g Grain) MarshalJSON() ([]byte, error) {
	return []byte(`"` + g.String() + `"`), nil
}

// MarshalText lets grains serve as JSON object keys (period components).
func (g Grain) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText parses a lowercase grain name.
func (g *Grain) UnmarshalText(text []byte) error {
	parsed, err := ParseGrain(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGrain parses a lowercase grain name.
func ParseGrain(s string) (Grain, error) {
	for g, name := range grainNames {
		if name == s {
			return g, nil
		}
	}
	return Second, fmt.Errorf("unknown grain %q", s)
}

// Finer returns the finer of the two grains.
func Finer(a, b Grain) Grain {
	if a < b {
		return a
	}
	return b
}
