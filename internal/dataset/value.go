package dataset

import (
	"math"
	"strconv"
	"time"
)

// Kind identifies which field of a Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindFloat
	KindDate
)

// DateLayout is the canonical rendering of date values.
const DateLayout = "2006-01-02"

// Value is a single typed cell. The zero Value is Null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// Null returns the missing value.
func Null() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float. NaN is kept as a float so that undefined aggregation
// results can be told apart from absent data.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Date wraps a calendar date, truncated to midnight UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NaN is the undefined float.
func NaN() Value { return Float(math.NaN()) }

// Kind reports the populated kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull is true only for KindNull.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsMissing is true for Null and for NaN floats.
func (v Value) IsMissing() bool {
	return v.kind == KindNull || (v.kind == KindFloat && math.IsNaN(v.f))
}

// Str returns the text payload; non-text values render via String.
func (v Value) Str() string {
	if v.kind == KindText {
		return v.s
	}
	return v.String()
}

// Number returns the numeric payload of Int and Float values.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		if math.IsNaN(v.f) {
			return 0, false
		}
		return v.f, true
	default:
		return 0, false
	}
}

// Integer returns the payload of Int values.
func (v Value) Integer() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// Time returns the payload of Date values.
func (v Value) Time() (time.Time, bool) {
	if v.kind == KindDate {
		return v.t, true
	}
	return time.Time{}, false
}

// String renders the value without locale formatting. Missing values render
// as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) {
			return ""
		}
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return ""
	}
}

// key is the grouping/join identity of a value. Int and Float with equal
// numeric payloads share a key.
func (v Value) key() string {
	switch v.kind {
	case KindText:
		return "s:" + v.s
	case KindInt:
		return "n:" + strconv.FormatFloat(float64(v.i), 'g', -1, 64)
	case KindFloat:
		if math.IsNaN(v.f) {
			return "\x00"
		}
		return "n:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDate:
		return "d:" + v.t.Format(DateLayout)
	default:
		return "\x00"
	}
}

// Equal reports whether a and b hold the same non-missing value.
func Equal(a, b Value) bool {
	if a.IsMissing() || b.IsMissing() {
		return false
	}
	return a.key() == b.key()
}

// Compare orders two non-missing values: numbers numerically, dates
// chronologically, everything else by rendered text. Missing values are the
// caller's concern.
func Compare(a, b Value) int {
	an, aNum := a.Number()
	bn, bNum := b.Number()
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	at, aDate := a.Time()
	bt, bDate := b.Time()
	if aDate && bDate {
		return at.Compare(bt)
	}
	as, bs := a.Str(), b.Str()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
