package dtype

import (
	"fmt"
	"strings"
)

// Case is one element that failed coercion.
type Case struct {
	Index int
	Value any
}

// ParserError reports every element of a column that could not be coerced.
// The input column is never modified; callers decide whether to surface the
// error eagerly or fold it into an aggregate.
type ParserError struct {
	DType DType
	Cases []Case
}

func (e *ParserError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "could not coerce %d value(s) to %s", len(e.Cases), e.DType)
	const maxShown = 3
	lim := len(e.Cases)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		c := e.Cases[i]
		fmt.Fprintf(b, "; [%d]=%v", c.Index, c.Value)
	}
	if len(e.Cases) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(e.Cases))
	}
	return b.String()
}

// Coerce converts a whole column to the dtype with all-or-nothing
// visibility: either every element converts and a fresh slice is returned,
// or a ParserError listing each offending (index, raw value) pair is
// returned and the input remains untouched. The index argument carries the
// column's row labels; when nil, positions are used.
func Coerce(dt DType, values []any, index []int) ([]any, error) {
	out := make([]any, len(values))
	var cases []Case
	for i, v := range values {
		if v == nil {
			continue
		}
		cv, err := dt.Coerce(v)
		if err != nil {
			label := i
			if index != nil {
				label = index[i]
			}
			cases = append(cases, Case{Index: label, Value: v})
			continue
		}
		out[i] = cv
	}
	if len(cases) > 0 {
		return nil, &ParserError{DType: dt, Cases: cases}
	}
	return out, nil
}
