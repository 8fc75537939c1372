// Package dimension defines the abstract semantic values produced by the
// upstream recognizer: a recognized-but-unanchored date expression, number,
// money amount, duration, and so on. The resolution engine turns these into
// concrete outputs.
//
// The kind set is closed. Unrecognized kinds are tolerated by the engine and
// resolve to nothing rather than failing the batch.
package dimension

import (
	"fmt"

	"github.com/hrygo/timewalk/plugin/nlp/constraint"
	"github.com/hrygo/timewalk/plugin/nlp/moment"
)

// Kind identifies the variant of an abstract value.
type Kind int

const (
	KindUnknown Kind = iota
	KindDatetime
	KindNumber
	KindOrdinal
	KindAmountOfMoney
	KindTemperature
	KindDuration
	KindPercentage
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindDatetime:      "datetime",
	KindNumber:        "number",
	KindOrdinal:       "ordinal",
	KindAmountOfMoney: "amount_of_money",
	KindTemperature:   "temperature",
	KindDuration:      "duration",
	KindPercentage:    "percentage",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Dimension is an abstract semantic value awaiting resolution.
type Dimension interface {
	Kind() Kind
}

// Precision describes how exact a value is claimed to be.
type Precision int

const (
	Exact Precision = iota
	Approximate
)

func (p Precision) String() string {
	if p == Approximate {
		return "approximate"
	}
	return "exact"
}

// MarshalJSON encodes the precision as its lowercase name.
func (p Precision) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// DatetimeKind classifies what a datetime expression denotes.
type DatetimeKind int

const (
	DatetimeEmpty DatetimeKind = iota
	Date
	Time
	DateTime
	DatePeriod
	TimePeriod
)

var datetimeKindNames = map[DatetimeKind]string{
	DatetimeEmpty: "empty",
	Date:          "date",
	Time:          "time",
	DateTime:      "datetime",
	DatePeriod:    "date_period",
	TimePeriod:    "time_period",
}

func (k DatetimeKind) String() string {
	if name, ok := datetimeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("datetime_kind(%d)", int(k))
}

// MarshalJSON encodes the datetime kind as its lowercase name.
func (k DatetimeKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Form carries flags the recognizer attached to a datetime expression.
// NotImmediate means the expression demands a strictly future/past
// occurrence, excluding the interval containing the reference itself.
type Form struct {
	NotImmediate bool
}

// BoundKind selects which edge of a resolved interval anchors an open-ended
// output.
type BoundKind int

const (
	BoundStart BoundKind = iota
	BoundEnd
)

// Bound is the anchor-edge selector of a directional expression. When
// OnlyInterval is set on an end bound, only an explicit interval end may
// anchor; intervals without one anchor at their start instead of the derived
// end.
type Bound struct {
	Kind         BoundKind
	OnlyInterval bool
}

// DirectionKind says which way an open-ended output extends.
type DirectionKind int

const (
	After DirectionKind = iota
	Before
)

// BoundedDirection marks a datetime expression as denoting an open-ended
// range ("after next Monday") rather than a point in time.
type BoundedDirection struct {
	Bound     Bound
	Direction DirectionKind
}

// DatetimeValue is a recognized temporal expression awaiting anchoring.
type DatetimeValue struct {
	Constraint   constraint.Constraint
	Form         Form
	Direction    *BoundedDirection
	Precision    Precision
	Latent       bool
	DatetimeKind DatetimeKind
}

func (DatetimeValue) Kind() Kind { return KindDatetime }

// IntegerValue is a recognized integer number.
type IntegerValue struct {
	Value int64
}

func (IntegerValue) Kind() Kind { return KindNumber }

// FloatValue is a recognized floating-point number.
type FloatValue struct {
	Value float64
}

func (FloatValue) Kind() Kind { return KindNumber }

// OrdinalValue is a recognized ordinal ("third").
type OrdinalValue struct {
	Value int64
}

func (OrdinalValue) Kind() Kind { return KindOrdinal }

// AmountOfMoneyValue is a recognized money amount.
type AmountOfMoneyValue struct {
	Value     float64
	Precision Precision
	Unit      string
}

func (AmountOfMoneyValue) Kind() Kind { return KindAmountOfMoney }

// TemperatureValue is a recognized temperature.
type TemperatureValue struct {
	Value  float64
	Unit   string
	Latent bool
}

func (TemperatureValue) Kind() Kind { return KindTemperature }

// Period is a calendar-aware duration expressed as per-grain components
// ("1 month and 2 days" keeps both, it is not flattened to hours).
type Period map[moment.Grain]int64

// DurationValue is a recognized duration.
type DurationValue struct {
	Period    Period
	Precision Precision
}

func (DurationValue) Kind() Kind { return KindDuration }

// PercentageValue is a recognized percentage.
type PercentageValue struct {
	Value float64
}

func (PercentageValue) Kind() Kind { return KindPercentage }

// UnknownValue stands in for recognizer kinds this resolver does not
// understand. It is tolerated and resolves to nothing.
type UnknownValue struct {
	Name string
}

func (UnknownValue) Kind() Kind { return KindUnknown }
