package framecheck

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// CheckOutcome is what a declared check reports: a single verdict for the
// whole object, or a per-row mask of passes (Mask != nil).
type CheckOutcome struct {
	Passed bool
	Mask   []bool
}

// OutcomeFromMask folds a per-row mask into an outcome.
func OutcomeFromMask(mask []bool) CheckOutcome {
	out := CheckOutcome{Passed: true, Mask: mask}
	for _, ok := range mask {
		if !ok {
			out.Passed = false
			break
		}
	}
	return out
}

// Check is a named predicate over data, scoped to one element, a column, or
// a frame. A failing check yields failure cases; it never raises on its own.
type Check struct {
	name   string
	id     string // built-in identifier, empty for hand-written checks
	scope  CheckScope
	params map[string]any
	err    error // construction-time error, surfaced as check_error

	elem  func(v any) bool
	col   func(ctx context.Context, s *Series) (CheckOutcome, error)
	frame func(ctx context.Context, df *DataFrame) (CheckOutcome, error)
}

func (c Check) Name() string      { return c.name }
func (c Check) Scope() CheckScope { return c.scope }

// ID is the stable identifier of a built-in check ("in_range", "isin", ...)
// used by schema documents. Empty for hand-written checks.
func (c Check) ID() string { return c.id }

// Params exposes the structured parameters of built-in checks for schema
// serialization. Nil for hand-written checks.
func (c Check) Params() map[string]any { return c.params }

// NewElementCheck wraps a per-value predicate. Nulls are skipped; the
// nullable structural check owns them.
func NewElementCheck(name string, fn func(v any) bool) Check {
	return Check{name: name, scope: ScopeElement, elem: fn}
}

// NewColumnCheck wraps a whole-column predicate.
func NewColumnCheck(name string, fn func(ctx context.Context, s *Series) (CheckOutcome, error)) Check {
	return Check{name: name, scope: ScopeColumn, col: fn}
}

// NewFrameCheck wraps a whole-frame predicate.
func NewFrameCheck(name string, fn func(ctx context.Context, df *DataFrame) (CheckOutcome, error)) Check {
	return Check{name: name, scope: ScopeFrame, frame: fn}
}

// ---- built-in checks ----

func compareCheck(id, name string, v any, keep func(cmp int) bool) Check {
	c := NewElementCheck(name, func(x any) bool {
		cmp, ok := compareValues(x, v)
		return ok && keep(cmp)
	})
	c.id = id
	c.params = map[string]any{"value": v}
	return c
}

// Gt passes values strictly greater than v.
func Gt(v any) Check {
	return compareCheck("greater_than", fmt.Sprintf("greater_than(%v)", v), v, func(c int) bool { return c > 0 })
}

// Ge passes values greater than or equal to v.
func Ge(v any) Check {
	return compareCheck("greater_than_or_equal_to", fmt.Sprintf("greater_than_or_equal_to(%v)", v), v, func(c int) bool { return c >= 0 })
}

// Lt passes values strictly less than v.
func Lt(v any) Check {
	return compareCheck("less_than", fmt.Sprintf("less_than(%v)", v), v, func(c int) bool { return c < 0 })
}

// Le passes values less than or equal to v.
func Le(v any) Check {
	return compareCheck("less_than_or_equal_to", fmt.Sprintf("less_than_or_equal_to(%v)", v), v, func(c int) bool { return c <= 0 })
}

// Eq passes values equal to v.
func Eq(v any) Check {
	return compareCheck("equal_to", fmt.Sprintf("equal_to(%v)", v), v, func(c int) bool { return c == 0 })
}

// Ne passes values not equal to v.
func Ne(v any) Check {
	return compareCheck("not_equal_to", fmt.Sprintf("not_equal_to(%v)", v), v, func(c int) bool { return c != 0 })
}

// InRange passes values in [min, max].
func InRange(min, max any) Check {
	c := NewElementCheck(fmt.Sprintf("in_range(%v, %v)", min, max), func(x any) bool {
		lo, okLo := compareValues(x, min)
		hi, okHi := compareValues(x, max)
		return okLo && okHi && lo >= 0 && hi <= 0
	})
	c.id = "in_range"
	c.params = map[string]any{"min": min, "max": max}
	return c
}

// Isin passes values contained in the allowed set.
func Isin(allowed ...any) Check {
	set := make(map[any]struct{}, len(allowed))
	for _, v := range allowed {
		set[valueKey(v)] = struct{}{}
	}
	c := NewElementCheck(fmt.Sprintf("isin(%v)", allowed), func(x any) bool {
		_, ok := set[valueKey(x)]
		return ok
	})
	c.id = "isin"
	c.params = map[string]any{"values": allowed}
	return c
}

// NotIn passes values outside the forbidden set.
func NotIn(forbidden ...any) Check {
	set := make(map[any]struct{}, len(forbidden))
	for _, v := range forbidden {
		set[valueKey(v)] = struct{}{}
	}
	c := NewElementCheck(fmt.Sprintf("notin(%v)", forbidden), func(x any) bool {
		_, ok := set[valueKey(x)]
		return !ok
	})
	c.id = "notin"
	c.params = map[string]any{"values": forbidden}
	return c
}

// StrMatches passes string values matching the pattern. A bad pattern is
// reported as check_error at validation time, not at construction.
func StrMatches(pattern string) Check {
	re, err := regexp.Compile(pattern)
	c := NewElementCheck(fmt.Sprintf("str_matches(%s)", pattern), func(x any) bool {
		s, ok := x.(string)
		return ok && re.MatchString(s)
	})
	c.id = "str_matches"
	c.params = map[string]any{"pattern": pattern}
	c.err = err
	return c
}

// compareValues orders two scalars of compatible kinds. The second result
// is false when the values are not comparable.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		return boolCmp(av, bv), true
	}
	return 0, false
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// CoreCheckResult is the uniform record produced by each structural check.
// It is produced fresh per check and never mutated.
type CoreCheckResult struct {
	Check        string
	ReasonCode   string
	Passed       bool
	Message      string
	FailureCases []FailureCase
}
