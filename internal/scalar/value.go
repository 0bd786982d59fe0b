package scalar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Value is a sealed interface for result cell values.
// Only Null, Text, Integer and Real implement it.
type Value interface {
	scalar() // Sealed - only these types implement it
	fmt.Stringer
}

// Kind names the tag of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInteger
	KindReal
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Null is the SQL NULL value.
type Null struct{}

func (Null) scalar() {}

// String renders NULL the way the result table shows it.
func (Null) String() string { return "NULL" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Text is a string value.
type Text string

func (Text) scalar() {}

func (t Text) String() string { return string(t) }

// Integer is a 64-bit integer value.
type Integer int64

func (Integer) scalar() {}

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// Real is a floating point value.
type Real float64

func (Real) scalar() {}

// String formats with the shortest representation that round-trips.
func (r Real) String() string { return strconv.FormatFloat(float64(r), 'g', -1, 64) }

// KindOf returns the tag of v. A nil Value is treated as Null.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Text:
		return KindText
	case Integer:
		return KindInteger
	case Real:
		return KindReal
	default:
		return KindNull
	}
}

// timestampFormat matches the layout SQLite uses for CURRENT_TIMESTAMP.
const timestampFormat = "2006-01-02 15:04:05"

// FromDriver converts a value scanned from database/sql into a Value.
// It accepts the types the sqlite3 driver produces.
func FromDriver(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Integer(val), nil
	case int:
		return Integer(int64(val)), nil
	case int32:
		return Integer(int64(val)), nil
	case float64:
		return Real(val), nil
	case float32:
		return Real(float64(val)), nil
	case bool:
		if val {
			return Integer(1), nil
		}
		return Integer(0), nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case time.Time:
		return Text(val.UTC().Format(timestampFormat)), nil
	default:
		return nil, fmt.Errorf("unsupported driver value type: %T", v)
	}
}

// Native returns the Go value used when a Value is encoded for output.
// Null becomes nil, Text a string, Integer an int64 and Real a float64.
func Native(v Value) any {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Integer:
		return int64(val)
	case Real:
		return float64(val)
	default:
		return nil
	}
}

// MarshalJSON encodes a Value as its native JSON form.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(Native(v))
}

// FromNative converts a decoded YAML or JSON value into a Value.
// Whole-number floats become Integer, matching how decoders surface numbers.
func FromNative(v any) (Value, error) {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return Integer(int64(val)), nil
		}
		return Real(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Integer(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return Real(f), nil
	case uint64:
		return Integer(int64(val)), nil
	default:
		return FromDriver(v)
	}
}
