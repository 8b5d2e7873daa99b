package framecheck

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/framecheck/framecheck/dtype"
	"github.com/framecheck/framecheck/i18n"
)

// fieldBackend is the capability surface a backend kind implements once:
// coercion, the four structural checks, and declared-check execution. The
// reference implementation runs in memory; backends wrapping lazy or
// partitioned engines implement the same surface with relational
// transforms, materializing only failure-case samples.
type fieldBackend interface {
	coerceDtype(obj *Series, c *seriesCore, ref SchemaRef) (*Series, *SchemaError)
	checkName(sub *Series, c *seriesCore) CoreCheckResult
	checkNullable(sub *Series, c *seriesCore) CoreCheckResult
	checkUnique(sub *Series, c *seriesCore) CoreCheckResult
	checkDtype(sub *Series, c *seriesCore) CoreCheckResult
	runChecks(ctx context.Context, sub *Series, c *seriesCore, ref SchemaRef, h *errorHandler) error
}

type inmem struct{}

var inmemBackend fieldBackend = inmem{}

// run executes the field pipeline against an already-preprocessed series:
// coerce, subsample, the four structural checks in fixed order, then
// declared checks. Failures flow through the handler; a non-nil error means
// eager termination. Coercion runs at most once and strictly precedes all
// checks.
func (c *seriesCore) run(ctx context.Context, be fieldBackend, obj *Series, ref SchemaRef, opt Options, h *errorHandler, forceCoerce bool) (*Series, error) {
	if (c.coerce || forceCoerce) && c.dtype != nil {
		coerced, serr := be.coerceDtype(obj, c, ref)
		if serr != nil {
			// coercion failure and structural failures are independent
			// facets; keep going so lazy mode reports both
			if err := h.collect(serr); err != nil {
				return nil, err
			}
		} else {
			obj = coerced
		}
	}

	sub := obj.take(subsamplePositions(obj.Len(), opt))

	for _, core := range []func(*Series, *seriesCore) CoreCheckResult{
		be.checkName,
		be.checkNullable,
		be.checkUnique,
		be.checkDtype,
	} {
		res := core(sub, c)
		if !res.Passed {
			serr := &SchemaError{
				Schema:       ref,
				Data:         obj,
				Check:        res.Check,
				ReasonCode:   res.ReasonCode,
				Message:      res.Message,
				FailureCases: res.FailureCases,
			}
			if err := h.collect(serr); err != nil {
				return nil, err
			}
		}
	}

	if err := be.runChecks(ctx, sub, c, ref, h); err != nil {
		return nil, err
	}
	return obj, nil
}

// Validate checks a series against the schema. On success it returns the
// (possibly coerced) series; the input is copied first unless
// Options.Inplace is set. On failure it returns a *SchemaError (eager) or a
// *SchemaErrors aggregate (lazy).
func (s *SeriesSchema) Validate(ctx context.Context, ser *Series, opts ...Options) (*Series, error) {
	opt := lastOption(opts)
	h := newErrorHandler(opt.Lazy)

	obj := ser
	if !opt.Inplace {
		obj = ser.copy()
	}
	out, err := s.core.run(ctx, inmemBackend, obj, s, opt, h, false)
	if err != nil {
		return nil, err
	}
	if h.hasErrors() {
		return nil, &SchemaErrors{Schema: s, Errors: h.collected, Data: out}
	}
	return out, nil
}

// Validate checks a frame against the schema: every declared column through
// the field pipeline, then the index, then frame-level checks. The same row
// subsample is applied to each column view and to the frame view.
func (s *DataFrameSchema) Validate(ctx context.Context, df *DataFrame, opts ...Options) (*DataFrame, error) {
	opt := lastOption(opts)
	h := newErrorHandler(opt.Lazy)

	obj := df
	if !opt.Inplace {
		obj = df.copy()
	}

	for _, col := range s.columns {
		ser, ok := obj.Column(col.core.name)
		if !ok {
			serr := &SchemaError{
				Schema:       s,
				Data:         obj,
				Check:        fmt.Sprintf("column_in_dataframe('%s')", col.core.name),
				ReasonCode:   CodeWrongFieldName,
				Message:      fmt.Sprintf("%s: column '%s' not in dataframe", i18n.T(CodeWrongFieldName, nil), col.core.name),
				FailureCases: scalarFailureCase(col.core.name),
			}
			if err := h.collect(serr); err != nil {
				return nil, err
			}
			continue
		}
		out, err := col.core.run(ctx, inmemBackend, ser, col, opt, h, s.coerce)
		if err != nil {
			return nil, err
		}
		obj.setColumn(out)
	}

	if s.index != nil {
		if _, err := s.index.core.run(ctx, inmemBackend, indexSeries(obj), s.index, opt, h, false); err != nil {
			return nil, err
		}
	}

	frameSub := obj.take(subsamplePositions(obj.Len(), opt))
	if err := runFrameChecks(ctx, frameSub, s, h); err != nil {
		return nil, err
	}

	if h.hasErrors() {
		return nil, &SchemaErrors{Schema: s, Errors: h.collected, Data: obj}
	}
	return obj, nil
}

// ---- reference backend ----

// coerceDtype converts the series to the declared dtype with all-or-nothing
// visibility. The schema association is attached before and re-attached
// after coercion so it survives into later contextual error messages.
func (inmem) coerceDtype(obj *Series, c *seriesCore, ref SchemaRef) (*Series, *SchemaError) {
	obj.schema = ref
	values, err := dtype.Coerce(c.dtype, obj.values, obj.index)
	if err != nil {
		var cases []FailureCase
		var pe *dtype.ParserError
		if errors.As(err, &pe) {
			cases = make([]FailureCase, len(pe.Cases))
			for i, pc := range pe.Cases {
				cases[i] = FailureCase{Index: pc.Index, Value: pc.Value}
			}
		}
		return nil, &SchemaError{
			Schema:       ref,
			Data:         obj,
			Check:        fmt.Sprintf("coerce_dtype('%s')", c.dtype),
			ReasonCode:   CodeCoerceDType,
			Message:      fmt.Sprintf("error while coercing '%s' to type %s: %v", obj.name, c.dtype, err),
			FailureCases: cases,
			Cause:        err,
		}
	}
	return &Series{name: obj.name, values: values, index: obj.index, schema: ref}, nil
}

func (inmem) checkName(sub *Series, c *seriesCore) CoreCheckResult {
	return CoreCheckResult{
		Check:      fmt.Sprintf("field_name('%s')", c.name),
		ReasonCode: CodeWrongFieldName,
		Passed:     c.name == "" || sub.name == c.name,
		Message: fmt.Sprintf("expected series to have name '%s', found '%s'",
			c.name, sub.name),
		FailureCases: scalarFailureCase(sub.name),
	}
}

func (inmem) checkNullable(sub *Series, c *seriesCore) CoreCheckResult {
	isna := sub.isNull()
	passed := c.nullable
	if !passed {
		passed = true
		for _, na := range isna {
			if na {
				passed = false
				break
			}
		}
	}
	var cases []FailureCase
	for i, na := range isna {
		if na {
			cases = append(cases, FailureCase{Index: sub.index[i], Value: nil})
		}
	}
	return CoreCheckResult{
		Check:      "not_nullable",
		ReasonCode: CodeContainsNulls,
		Passed:     passed,
		Message: fmt.Sprintf("non-nullable series '%s' %s (%d row(s))",
			sub.name, i18n.T(CodeContainsNulls, nil), len(cases)),
		FailureCases: cases,
	}
}

func (inmem) checkUnique(sub *Series, c *seriesCore) CoreCheckResult {
	passed := true
	var cases []FailureCase
	var message string
	if c.unique {
		mask := sub.duplicated(c.keep)
		for i, dup := range mask {
			if dup {
				passed = false
				cases = append(cases, FailureCase{Index: sub.index[i], Value: sub.values[i]})
			}
		}
		if !passed {
			message = fmt.Sprintf("series '%s' %s (keep=%s, %d row(s))",
				sub.name, i18n.T(CodeContainsDupes, nil), c.keep, len(cases))
		}
	}
	return CoreCheckResult{
		Check:        "field_uniqueness",
		ReasonCode:   CodeContainsDupes,
		Passed:       passed,
		Message:      message,
		FailureCases: cases,
	}
}

func (inmem) checkDtype(sub *Series, c *seriesCore) CoreCheckResult {
	passed := true
	var cases []FailureCase
	var message string
	if c.dtype != nil {
		res := dtype.Check(c.dtype, sub.values)
		passed = res.Passed
		if res.Mask == nil {
			// whole-column verdict: one synthetic failure case carrying
			// the actual dtype
			actual := dtype.Infer(sub.values)
			cases = scalarFailureCase(actual.String())
			message = fmt.Sprintf("expected series '%s' to have type %s, got %s",
				sub.name, c.dtype, actual)
		} else {
			for i, ok := range res.Mask {
				if !ok {
					cases = append(cases, FailureCase{Index: sub.index[i], Value: sub.values[i]})
				}
			}
			message = fmt.Sprintf("expected series '%s' to have type %s (%d non-conforming row(s))",
				sub.name, c.dtype, len(cases))
		}
	}
	return CoreCheckResult{
		Check:        fmt.Sprintf("dtype('%s')", c.dtype),
		ReasonCode:   CodeWrongDType,
		Passed:       passed,
		Message:      message,
		FailureCases: cases,
	}
}

// runChecks executes declared checks in declaration order. A check whose
// implementation returns an error or panics is downgraded to check_error at
// this boundary so one broken check never prevents reporting of the rest.
func (inmem) runChecks(ctx context.Context, sub *Series, c *seriesCore, ref SchemaRef, h *errorHandler) error {
	for _, chk := range c.checks {
		out, err := runFieldCheck(ctx, sub, chk)
		if err != nil {
			if cerr := h.collect(checkErrorSchemaError(ref, sub, chk, err)); cerr != nil {
				return cerr
			}
			continue
		}
		if !out.Passed {
			serr := &SchemaError{
				Schema:     ref,
				Data:       sub,
				Check:      chk.name,
				ReasonCode: CodeDataFrameCheck,
				Message: fmt.Sprintf("check %s failed for series '%s'",
					chk.name, sub.name),
				FailureCases: maskFailureCases(sub, out),
			}
			if cerr := h.collect(serr); cerr != nil {
				return cerr
			}
		}
	}
	return nil
}

func runFrameChecks(ctx context.Context, sub *DataFrame, s *DataFrameSchema, h *errorHandler) error {
	for _, chk := range s.checks {
		out, err := runFrameCheck(ctx, sub, chk)
		if err != nil {
			if cerr := h.collect(checkErrorSchemaError(s, sub, chk, err)); cerr != nil {
				return cerr
			}
			continue
		}
		if !out.Passed {
			serr := &SchemaError{
				Schema:       s,
				Data:         sub,
				Check:        chk.name,
				ReasonCode:   CodeDataFrameCheck,
				Message:      fmt.Sprintf("check %s failed for dataframe", chk.name),
				FailureCases: frameMaskFailureCases(sub, out),
			}
			if cerr := h.collect(serr); cerr != nil {
				return cerr
			}
		}
	}
	return nil
}

func runFieldCheck(ctx context.Context, sub *Series, chk Check) (out CheckOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(error); ok {
				err = re
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	if chk.err != nil {
		return CheckOutcome{}, chk.err
	}
	switch chk.scope {
	case ScopeElement:
		mask := make([]bool, sub.Len())
		for i, v := range sub.values {
			if v == nil {
				mask[i] = true
				continue
			}
			mask[i] = chk.elem(v)
		}
		return OutcomeFromMask(mask), nil
	case ScopeColumn:
		out, err = chk.col(ctx, sub)
		if err == nil && out.Mask != nil && len(out.Mask) != sub.Len() {
			err = fmt.Errorf("check %q returned a mask of length %d for %d row(s)",
				chk.name, len(out.Mask), sub.Len())
		}
		return out, err
	default:
		return CheckOutcome{}, fmt.Errorf("check %q is frame-scoped and cannot run on a series", chk.name)
	}
}

func runFrameCheck(ctx context.Context, sub *DataFrame, chk Check) (out CheckOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(error); ok {
				err = re
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	if chk.err != nil {
		return CheckOutcome{}, chk.err
	}
	if chk.scope != ScopeFrame {
		return CheckOutcome{}, fmt.Errorf("check %q is %s-scoped and cannot run on a frame", chk.name, scopeName(chk.scope))
	}
	out, err = chk.frame(ctx, sub)
	if err == nil && out.Mask != nil && len(out.Mask) != sub.Len() {
		err = fmt.Errorf("check %q returned a mask of length %d for %d row(s)",
			chk.name, len(out.Mask), sub.Len())
	}
	return out, err
}

func scopeName(s CheckScope) string {
	switch s {
	case ScopeElement:
		return "element"
	case ScopeColumn:
		return "column"
	default:
		return "frame"
	}
}

// checkErrorSchemaError wraps an unexpected failure of a check
// implementation. Wrapped errors are unwound to their root cause first.
func checkErrorSchemaError(ref SchemaRef, data any, chk Check, err error) *SchemaError {
	cause := err
	for {
		u := errors.Unwrap(cause)
		if u == nil {
			break
		}
		cause = u
	}
	errStr := fmt.Sprintf("%T(%q)", cause, cause.Error())
	return &SchemaError{
		Schema:     ref,
		Data:       data,
		Check:      chk.name,
		ReasonCode: CodeCheckError,
		Message: fmt.Sprintf("%s %s: %v",
			i18n.T(CodeCheckError, nil), chk.name, cause),
		FailureCases: scalarFailureCase(errStr),
		Cause:        cause,
	}
}

func maskFailureCases(sub *Series, out CheckOutcome) []FailureCase {
	if out.Mask == nil {
		return scalarFailureCase(false)
	}
	var cases []FailureCase
	for i, ok := range out.Mask {
		if !ok {
			cases = append(cases, FailureCase{Index: sub.index[i], Value: sub.values[i]})
		}
	}
	return cases
}

func frameMaskFailureCases(sub *DataFrame, out CheckOutcome) []FailureCase {
	if out.Mask == nil {
		return scalarFailureCase(false)
	}
	var cases []FailureCase
	for i, ok := range out.Mask {
		if !ok {
			label := i
			if len(sub.columns) > 0 {
				label = sub.columns[0].index[i]
			}
			cases = append(cases, FailureCase{Index: label, Value: nil})
		}
	}
	return cases
}

// indexSeries projects a frame's row labels into a series so the index
// declaration reuses the field pipeline.
func indexSeries(df *DataFrame) *Series {
	if len(df.columns) == 0 {
		return NewSeries("", nil)
	}
	labels := df.columns[0].index
	values := make([]any, len(labels))
	index := make([]int, len(labels))
	for i, l := range labels {
		values[i] = int64(l)
		index[i] = l
	}
	return &Series{name: "", values: values, index: index}
}

// subsamplePositions computes the row positions every check in a call
// observes: the union of head, tail and a seeded random sample, ascending.
// A nil result selects all rows.
func subsamplePositions(n int, opt Options) []int {
	if opt.Head <= 0 && opt.Tail <= 0 && opt.Sample <= 0 {
		return nil
	}
	selected := make(map[int]struct{})
	if opt.Head > 0 {
		for i := 0; i < min(opt.Head, n); i++ {
			selected[i] = struct{}{}
		}
	}
	if opt.Tail > 0 {
		for i := max(n-opt.Tail, 0); i < n; i++ {
			selected[i] = struct{}{}
		}
	}
	if opt.Sample > 0 {
		r := rand.New(rand.NewSource(opt.RandomState))
		for _, p := range r.Perm(n)[:min(opt.Sample, n)] {
			selected[p] = struct{}{}
		}
	}
	pos := make([]int, 0, len(selected))
	for p := range selected {
		pos = append(pos, p)
	}
	sort.Ints(pos)
	return pos
}
