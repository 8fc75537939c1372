// Package output defines the concrete resolved values returned by the
// resolution engine: anchored datetimes and intervals, plain numbers, money
// amounts, temperatures, durations and percentages. Outputs are plain
// JSON-marshalable values owned by the caller.
package output

import (
	"github.com/hrygo/timewalk/plugin/nlp/dimension"
	"github.com/hrygo/timewalk/plugin/nlp/moment"
)

// Output is a concrete resolved value. The variant set is closed.
type Output interface {
	isOutput()
}

// Datetime is a resolved point in time at a grain.
type Datetime struct {
	Moment       moment.Moment          `json:"moment"`
	Grain        moment.Grain           `json:"grain"`
	Precision    dimension.Precision    `json:"precision"`
	Latent       bool                   `json:"latent"`
	DatetimeKind dimension.DatetimeKind `json:"datetime_kind"`
}

func (Datetime) isOutput() {}

// IntervalKind discriminates the shape of a DatetimeInterval.
type IntervalKind int

const (
	IntervalBetween IntervalKind = iota
	IntervalAfter
	IntervalBefore
)

func (k IntervalKind) String() string {
	switch k {
	case IntervalAfter:
		return "after"
	case IntervalBefore:
		return "before"
	default:
		return "between"
	}
}

// MarshalJSON encodes the interval kind as its lowercase name.
func (k IntervalKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Between is a closed resolved span.
type Between struct {
	Start     moment.Moment       `json:"start"`
	End       moment.Moment       `json:"end"`
	Precision dimension.Precision `json:"precision"`
	Latent    bool                `json:"latent"`
}

// DatetimeInterval is a resolved span: either a closed Between, or an
// open-ended range extending after/before an anchor datetime. Exactly one of
// Between and Anchor is set, per Kind.
type DatetimeInterval struct {
	Kind         IntervalKind           `json:"kind"`
	Between      *Between               `json:"between,omitempty"`
	Anchor       *Datetime              `json:"anchor,omitempty"`
	DatetimeKind dimension.DatetimeKind `json:"datetime_kind"`
}

func (DatetimeInterval) isOutput() {}

// Integer is a resolved integer number.
type Integer struct {
	Value int64 `json:"value"`
}

func (Integer) isOutput() {}

// Float is a resolved floating-point number.
type Float struct {
	Value float64 `json:"value"`
}

func (Float) isOutput() {}

// Ordinal is a resolved ordinal.
type Ordinal struct {
	Value int64 `json:"value"`
}

func (Ordinal) isOutput() {}

// AmountOfMoney is a resolved money amount.
type AmountOfMoney struct {
	Value     float64             `json:"value"`
	Precision dimension.Precision `json:"precision"`
	Unit      string              `json:"unit"`
}

func (AmountOfMoney) isOutput() {}

// Temperature is a resolved temperature.
type Temperature struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Latent bool    `json:"latent"`
}

func (Temperature) isOutput() {}

// Duration is a resolved duration.
type Duration struct {
	Period    dimension.Period    `json:"period"`
	Precision dimension.Precision `json:"precision"`
}

func (Duration) isOutput() {}

// Percentage is a resolved percentage.
type Percentage struct {
	Value float64 `json:"value"`
}

func (Percentage) isOutput() {}

// KindName names the output variant for diagnostics and audit records.
func KindName(o Output) string {
	switch o.(type) {
	case Datetime:
		return "datetime"
	case DatetimeInterval:
		return "datetime_interval"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Ordinal:
		return "ordinal"
	case AmountOfMoney:
		return "amount_of_money"
	case Temperature:
		return "temperature"
	case Duration:
		return "duration"
	case Percentage:
		return "percentage"
	default:
		return "unknown"
	}
}
