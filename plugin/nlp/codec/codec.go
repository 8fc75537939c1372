// Package codec decodes the declarative JSON form of abstract semantic
// values into dimension values. This is request framing for callers that
// hold already-recognized values outside the process; it is not a
// natural-language grammar.
package codec

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timewalk/plugin/nlp/constraint"
	"github.com/hrygo/timewalk/plugin/nlp/dimension"
	"github.com/hrygo/timewalk/plugin/nlp/moment"
)

// valueSpec is the wire shape of one abstract value. Fields are a superset
// across kinds; the kind decides which are read.
type valueSpec struct {
	Kind string `json:"kind"`

	// datetime
	Constraint   json.RawMessage `json:"constraint,omitempty"`
	NotImmediate bool            `json:"not_immediate,omitempty"`
	Direction    *directionSpec  `json:"direction,omitempty"`
	DatetimeKind string          `json:"datetime_kind,omitempty"`

	// scalar kinds
	Value     float64          `json:"value,omitempty"`
	Unit      string           `json:"unit,omitempty"`
	Period    map[string]int64 `json:"period,omitempty"`
	Precision string           `json:"precision,omitempty"`
	Latent    bool             `json:"latent,omitempty"`
}

type directionSpec struct {
	Bound        string `json:"bound"`
	Direction    string `json:"direction"`
	OnlyInterval bool   `json:"only_interval,omitempty"`
}

type constraintSpec struct {
	Type string `json:"type"`

	Grain     string          `json:"grain,omitempty"`
	Day       json.RawMessage `json:"day,omitempty"`
	Month     int             `json:"month,omitempty"`
	Hour      int             `json:"hour,omitempty"`
	Minute    int             `json:"minute,omitempty"`
	N         int             `json:"n,omitempty"`
	Inner     json.RawMessage `json:"inner,omitempty"`
	Outer     json.RawMessage `json:"outer,omitempty"`
	From      json.RawMessage `json:"from,omitempty"`
	To        json.RawMessage `json:"to,omitempty"`
	Inclusive bool            `json:"inclusive,omitempty"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DecodeValue decodes one declarative value into a dimension. Kinds this
// resolver does not understand decode to an UnknownValue rather than an
// error, so one odd value never poisons a batch.
func DecodeValue(raw json.RawMessage) (dimension.Dimension, error) {
	var spec valueSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, errors.Wrap(err, "decode value")
	}

	precision, err := parsePrecision(spec.Precision)
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case "datetime":
		return decodeDatetime(spec, precision)
	case "integer":
		return dimension.IntegerValue{Value: int64(spec.Value)}, nil
	case "float":
		return dimension.FloatValue{Value: spec.Value}, nil
	case "ordinal":
		return dimension.OrdinalValue{Value: int64(spec.Value)}, nil
	case "amount_of_money":
		return dimension.AmountOfMoneyValue{Value: spec.Value, Precision: precision, Unit: spec.Unit}, nil
	case "temperature":
		return dimension.TemperatureValue{Value: spec.Value, Unit: spec.Unit, Latent: spec.Latent}, nil
	case "duration":
		period := dimension.Period{}
		for name, n := range spec.Period {
			g, err := moment.ParseGrain(name)
			if err != nil {
				return nil, errors.Wrap(err, "decode duration period")
			}
			period[g] = n
		}
		return dimension.DurationValue{Period: period, Precision: precision}, nil
	case "percentage":
		return dimension.PercentageValue{Value: spec.Value}, nil
	case "":
		return nil, errors.New("value is missing a kind")
	default:
		return dimension.UnknownValue{Name: spec.Kind}, nil
	}
}

// DecodeValues decodes a batch, failing on the first malformed entry.
func DecodeValues(raws []json.RawMessage) ([]dimension.Dimension, error) {
	dims := make([]dimension.Dimension, 0, len(raws))
	for i, raw := range raws {
		dim, err := DecodeValue(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

func decodeDatetime(spec valueSpec, precision dimension.Precision) (dimension.Dimension, error) {
	if len(spec.Constraint) == 0 {
		return nil, errors.New("datetime value is missing a constraint")
	}
	c, err := DecodeConstraint(spec.Constraint)
	if err != nil {
		return nil, err
	}

	value := dimension.DatetimeValue{
		Constraint: c,
		Form:       dimension.Form{NotImmediate: spec.NotImmediate},
		Precision:  precision,
		Latent:     spec.Latent,
	}

	value.DatetimeKind, err = parseDatetimeKind(spec.DatetimeKind)
	if err != nil {
		return nil, err
	}

	if spec.Direction != nil {
		dir, err := parseDirection(spec.Direction)
		if err != nil {
			return nil, err
		}
		value.Direction = dir
	}
	return value, nil
}

// DecodeConstraint decodes a declarative constraint tree.
func DecodeConstraint(raw json.RawMessage) (constraint.Constraint, error) {
	var spec constraintSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, errors.Wrap(err, "decode constraint")
	}

	switch spec.Type {
	case "cycle":
		g, err := moment.ParseGrain(spec.Grain)
		if err != nil {
			return nil, errors.Wrap(err, "cycle constraint")
		}
		return constraint.Cycle(g), nil
	case "day_of_week":
		var name string
		if err := json.Unmarshal(spec.Day, &name); err != nil {
			return nil, errors.Wrap(err, "day_of_week constraint")
		}
		w, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, errors.Errorf("unknown weekday %q", name)
		}
		return constraint.DayOfWeek(w), nil
	case "month":
		if spec.Month < 1 || spec.Month > 12 {
			return nil, errors.Errorf("month out of range: %d", spec.Month)
		}
		return constraint.Month(time.Month(spec.Month)), nil
	case "month_day":
		var day int
		if err := json.Unmarshal(spec.Day, &day); err != nil {
			return nil, errors.Wrap(err, "month_day constraint")
		}
		if day < 1 || day > 31 {
			return nil, errors.Errorf("month day out of range: %d", day)
		}
		return constraint.MonthDay(day), nil
	case "hour_minute":
		if spec.Hour < 0 || spec.Hour > 23 || spec.Minute < 0 || spec.Minute > 59 {
			return nil, errors.Errorf("clock time out of range: %d:%d", spec.Hour, spec.Minute)
		}
		return constraint.HourMinute(spec.Hour, spec.Minute), nil
	case "intersect":
		outer, err := DecodeConstraint(spec.Outer)
		if err != nil {
			return nil, err
		}
		inner, err := DecodeConstraint(spec.Inner)
		if err != nil {
			return nil, err
		}
		return constraint.Intersect(outer, inner), nil
	case "shift":
		inner, err := DecodeConstraint(spec.Inner)
		if err != nil {
			return nil, err
		}
		g, err := moment.ParseGrain(spec.Grain)
		if err != nil {
			return nil, errors.Wrap(err, "shift constraint")
		}
		return constraint.Shift(inner, g, spec.N), nil
	case "span":
		from, err := DecodeConstraint(spec.From)
		if err != nil {
			return nil, err
		}
		to, err := DecodeConstraint(spec.To)
		if err != nil {
			return nil, err
		}
		return constraint.Span(from, to, spec.Inclusive), nil
	case "empty":
		return constraint.Empty(), nil
	default:
		return nil, errors.Errorf("unknown constraint type %q", spec.Type)
	}
}

func parsePrecision(s string) (dimension.Precision, error) {
	switch s {
	case "", "exact":
		return dimension.Exact, nil
	case "approximate":
		return dimension.Approximate, nil
	default:
		return dimension.Exact, errors.Errorf("unknown precision %q", s)
	}
}

func parseDatetimeKind(s string) (dimension.DatetimeKind, error) {
	switch s {
	case "", "empty":
		return dimension.DatetimeEmpty, nil
	case "date":
		return dimension.Date, nil
	case "time":
		return dimension.Time, nil
	case "datetime":
		return dimension.DateTime, nil
	case "date_period":
		return dimension.DatePeriod, nil
	case "time_period":
		return dimension.TimePeriod, nil
	default:
		return dimension.DatetimeEmpty, errors.Errorf("unknown datetime kind %q", s)
	}
}

func parseDirection(spec *directionSpec) (*dimension.BoundedDirection, error) {
	dir := &dimension.BoundedDirection{}

	switch spec.Bound {
	case "start":
		dir.Bound = dimension.Bound{Kind: dimension.BoundStart}
	case "end":
		dir.Bound = dimension.Bound{Kind: dimension.BoundEnd, OnlyInterval: spec.OnlyInterval}
	default:
		return nil, errors.Errorf("unknown bound %q", spec.Bound)
	}

	switch spec.Direction {
	case "after":
		dir.Direction = dimension.After
	case "before":
		dir.Direction = dimension.Before
	default:
		return nil, errors.Errorf("unknown direction %q", spec.Direction)
	}
	return dir, nil
}
