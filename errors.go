package framecheck

import (
	"errors"
	"fmt"
	"strings"
)

// Reason codes (exported consts for machine filtering; the set is a stable,
// low-cardinality enumeration)
const (
	CodeWrongFieldName = "wrong_field_name"
	CodeContainsNulls  = "series_contains_nulls"
	CodeContainsDupes  = "series_contains_duplicates"
	CodeWrongDType     = "wrong_dtype"
	CodeCoerceDType    = "coerce_dtype"
	CodeDataFrameCheck = "dataframe_check" // a declared check reported a failure
	CodeCheckError     = "check_error"     // a declared check raised an unexpected error
)

// SchemaRef identifies the schema that produced an error.
type SchemaRef interface {
	SchemaName() string
}

// FailureCase is one (row label, offending value) pair. Scalar violations
// (for example a wrong field name) use Index == ScalarIndex.
type FailureCase struct {
	Index int `json:"index"`
	Value any `json:"value"`
}

// ScalarIndex marks a failure case that does not refer to a row.
const ScalarIndex = -1

func scalarFailureCase(v any) []FailureCase {
	return []FailureCase{{Index: ScalarIndex, Value: v}}
}

// SchemaError is a single validation failure. It is created per call and
// never mutated afterwards.
type SchemaError struct {
	Schema       SchemaRef
	Data         any // offending data object snapshot
	Check        string
	ReasonCode   string
	Message      string
	FailureCases []FailureCase
	Cause        error // optional underlying error (coercion, broken check)
}

func (e *SchemaError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s (check %s)", e.ReasonCode, e.Check)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// SchemaErrors is the ordered aggregate produced by lazy validation. The
// order matches check execution order, so reports are reproducible.
type SchemaErrors struct {
	Schema SchemaRef
	Errors []*SchemaError
	Data   any
}

// Error summarizes the first few failures.
func (e *SchemaErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(e.Errors)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		se := e.Errors[i]
		fmt.Fprintf(b, "%s (check %s)", se.ReasonCode, se.Check)
	}
	if len(e.Errors) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(e.Errors))
	}
	return b.String()
}

// AsSchemaError extracts a single SchemaError using errors.As internally.
func AsSchemaError(err error) (*SchemaError, bool) {
	if err == nil {
		return nil, false
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsSchemaErrors extracts a lazy aggregate using errors.As internally.
func AsSchemaErrors(err error) (*SchemaErrors, bool) {
	if err == nil {
		return nil, false
	}
	var agg *SchemaErrors
	if errors.As(err, &agg) {
		return agg, true
	}
	return nil, false
}
