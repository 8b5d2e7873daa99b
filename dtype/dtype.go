package dtype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the closed set of logical dtypes supported by the engine.
type Kind int

const (
	KindObject Kind = iota // heterogeneous or unknown
	KindInt64
	KindFloat64
	KindBool
	KindString
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	default:
		return "object"
	}
}

// DType is a logical dtype descriptor. A nil DType means "unspecified".
type DType interface {
	fmt.Stringer
	Kind() Kind
	// Has reports whether a single runtime value conforms to the dtype.
	// Null (nil) values are considered conforming; nullability is a
	// separate concern.
	Has(v any) bool
	// Coerce converts one value to the dtype's canonical representation.
	Coerce(v any) (any, error)
}

// The engine's built-in descriptors.
var (
	Int64    DType = int64Type{}
	Float64  DType = float64Type{}
	Bool     DType = boolType{}
	String   DType = stringType{}
	DateTime DType = dateTimeType{}
)

// FromString resolves a dtype name as used in schema documents.
func FromString(name string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "int64":
		return Int64, nil
	case "float", "float64":
		return Float64, nil
	case "bool", "boolean":
		return Bool, nil
	case "str", "string":
		return String, nil
	case "datetime", "timestamp":
		return DateTime, nil
	}
	return nil, fmt.Errorf("dtype: unknown dtype %q", name)
}

// KindOf reports the runtime kind of a single value. Null maps to KindObject.
func KindOf(v any) Kind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt64
	case float32, float64:
		return KindFloat64
	case bool:
		return KindBool
	case string:
		return KindString
	case time.Time:
		return KindDateTime
	default:
		return KindObject
	}
}

// Infer reports the kind of a whole column. Columns whose non-null values do
// not share one kind infer as KindObject. An all-null or empty column also
// infers as KindObject.
func Infer(values []any) Kind {
	inferred := KindObject
	for _, v := range values {
		if v == nil {
			continue
		}
		k := KindOf(v)
		if inferred == KindObject {
			inferred = k
			continue
		}
		if k != inferred {
			return KindObject
		}
	}
	return inferred
}

// CheckResult is the outcome of a compatibility check: either a single
// verdict for the whole column (Mask == nil) or a per-element mask.
type CheckResult struct {
	Passed bool
	Mask   []bool
}

// Check verifies a column against a dtype descriptor. Homogeneous columns
// yield a scalar verdict comparing the inferred kind; heterogeneous columns
// yield a per-element mask so callers can report the offending rows.
func Check(dt DType, values []any) CheckResult {
	inferred := Infer(values)
	if inferred != KindObject {
		return CheckResult{Passed: inferred == dt.Kind()}
	}
	mask := make([]bool, len(values))
	passed := true
	for i, v := range values {
		mask[i] = dt.Has(v)
		if !mask[i] {
			passed = false
		}
	}
	return CheckResult{Passed: passed, Mask: mask}
}

// ---- int64 ----

type int64Type struct{}

func (int64Type) String() string { return "int64" }
func (int64Type) Kind() Kind     { return KindInt64 }

func (int64Type) Has(v any) bool {
	return v == nil || KindOf(v) == KindInt64
}

func (int64Type) Coerce(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case bool:
		if n {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return floatToInt64(f)
		}
		return nil, fmt.Errorf("cannot parse %q as int64", n)
	}
	return nil, fmt.Errorf("cannot coerce %T to int64", v)
}

func floatToInt64(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("cannot coerce %v to int64 without loss", f)
	}
	// float64(MaxInt64) rounds up to 2^63, so >= is the exact upper bound
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("value %v overflows int64", f)
	}
	return int64(f), nil
}

// ---- float64 ----

type float64Type struct{}

func (float64Type) String() string { return "float64" }
func (float64Type) Kind() Kind     { return KindFloat64 }

func (float64Type) Has(v any) bool {
	if v == nil {
		return true
	}
	k := KindOf(v)
	return k == KindFloat64 || k == KindInt64
}

func (float64Type) Coerce(v any) (any, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case bool:
		if n {
			return float64(1), nil
		}
		return float64(0), nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("cannot parse %q as float64", n)
	}
	return nil, fmt.Errorf("cannot coerce %T to float64", v)
}

// ---- bool ----

type boolType struct{}

func (boolType) String() string { return "bool" }
func (boolType) Kind() Kind     { return KindBool }

func (boolType) Has(v any) bool {
	return v == nil || KindOf(v) == KindBool
}

func (boolType) Coerce(v any) (any, error) {
	switch n := v.(type) {
	case bool:
		return n, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("cannot parse %q as bool", n)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, _ := int64Type{}.Coerce(n)
		switch i {
		case int64(0):
			return false, nil
		case int64(1):
			return true, nil
		}
		return nil, fmt.Errorf("cannot coerce %v to bool", n)
	}
	return nil, fmt.Errorf("cannot coerce %T to bool", v)
}

// ---- string ----

type stringType struct{}

func (stringType) String() string { return "string" }
func (stringType) Kind() Kind     { return KindString }

func (stringType) Has(v any) bool {
	return v == nil || KindOf(v) == KindString
}

func (stringType) Coerce(v any) (any, error) {
	switch n := v.(type) {
	case string:
		return n, nil
	case time.Time:
		return n.UTC().Format(time.RFC3339Nano), nil
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32), nil
	}
	return fmt.Sprint(v), nil
}

// ---- datetime ----

type dateTimeType struct{}

func (dateTimeType) String() string { return "datetime" }
func (dateTimeType) Kind() Kind     { return KindDateTime }

func (dateTimeType) Has(v any) bool {
	return v == nil || KindOf(v) == KindDateTime
}

func (dateTimeType) Coerce(v any) (any, error) {
	switch n := v.(type) {
	case time.Time:
		return n, nil
	case string:
		return parseTime(strings.TrimSpace(n))
	}
	return nil, fmt.Errorf("cannot coerce %T to datetime", v)
}

// parseTime accepts RFC3339 (with optional fractional seconds) and bare dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as datetime", s)
}
