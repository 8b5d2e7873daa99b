package framecheck_test

import (
	"context"
	"fmt"
	"testing"

	framecheck "github.com/framecheck/framecheck"
	"github.com/framecheck/framecheck/dtype"
)

func TestValidate_IdempotentOnConformingData(t *testing.T) {
	schema := framecheck.NewSeriesSchema("age", dtype.Int64)
	in := framecheck.NewSeries("age", []any{int64(1), int64(2), int64(3)})

	out, err := schema.Validate(context.Background(), in)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out == in {
		t.Fatalf("expected a defensive copy, got the input object")
	}
	if !out.Equal(in) {
		t.Fatalf("expected output equal to input")
	}
	if out.Schema() != nil {
		t.Fatalf("non-coercing validation must not attach a schema")
	}
}

func TestValidate_WrongDTypePerElementFailureCases(t *testing.T) {
	schema := framecheck.NewSeriesSchema("age", dtype.Int64, framecheck.Nullable())
	// heterogeneous column: per-element compatibility mask
	in := framecheck.NewSeries("age", []any{int64(1), "a", 2.5, int64(4)})

	_, err := schema.Validate(context.Background(), in, framecheck.Options{Lazy: true})
	agg, ok := framecheck.AsSchemaErrors(err)
	if !ok {
		t.Fatalf("expected SchemaErrors, got %v", err)
	}
	if len(agg.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(agg.Errors), agg)
	}
	se := agg.Errors[0]
	if se.ReasonCode != framecheck.CodeWrongDType {
		t.Fatalf("expected wrong_dtype, got %s", se.ReasonCode)
	}
	wantIdx := []int{1, 2}
	if len(se.FailureCases) != len(wantIdx) {
		t.Fatalf("expected %d failure cases, got %d", len(wantIdx), len(se.FailureCases))
	}
	for i, fc := range se.FailureCases {
		if fc.Index != wantIdx[i] {
			t.Fatalf("failure case %d: expected index %d, got %d", i, wantIdx[i], fc.Index)
		}
	}
}

func TestValidate_WrongDTypeScalarFailureCase(t *testing.T) {
	schema := framecheck.NewSeriesSchema("age", dtype.Int64)
	in := framecheck.NewSeries("age", []any{"1", "2"})

	_, err := schema.Validate(context.Background(), in)
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeWrongDType {
		t.Fatalf("expected wrong_dtype, got %s", se.ReasonCode)
	}
	if len(se.FailureCases) != 1 || se.FailureCases[0].Index != framecheck.ScalarIndex {
		t.Fatalf("expected one scalar failure case, got %v", se.FailureCases)
	}
	if se.FailureCases[0].Value != "string" {
		t.Fatalf("expected actual dtype 'string', got %v", se.FailureCases[0].Value)
	}
}

func TestValidate_LazyCollectsIndependentViolations(t *testing.T) {
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Unique(framecheck.KeepFirst))
	in := framecheck.NewSeries("x", []any{int64(1), int64(1), nil})

	_, err := schema.Validate(context.Background(), in, framecheck.Options{Lazy: true})
	agg, ok := framecheck.AsSchemaErrors(err)
	if !ok {
		t.Fatalf("expected SchemaErrors, got %v", err)
	}
	var codes []string
	for _, se := range agg.Errors {
		codes = append(codes, se.ReasonCode)
	}
	want := []string{framecheck.CodeContainsNulls, framecheck.CodeContainsDupes}
	if len(codes) != len(want) {
		t.Fatalf("expected codes %v, got %v", want, codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected codes %v in execution order, got %v", want, codes)
		}
	}
}

func TestValidate_EagerStopsAtFirstStructuralViolation(t *testing.T) {
	ran := false
	recorder := framecheck.NewColumnCheck("recorder", func(ctx context.Context, s *framecheck.Series) (framecheck.CheckOutcome, error) {
		ran = true
		return framecheck.CheckOutcome{Passed: false}, nil
	})
	schema := framecheck.NewSeriesSchema("expected", nil, framecheck.Checks(recorder))
	in := framecheck.NewSeries("actual", []any{nil, int64(1), int64(1)})

	_, err := schema.Validate(context.Background(), in)
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeWrongFieldName {
		t.Fatalf("expected wrong_field_name first, got %s", se.ReasonCode)
	}
	if ran {
		t.Fatalf("declared check must not run after an eager structural failure")
	}
}

func TestValidate_UniqueKeepPolicies(t *testing.T) {
	values := []any{int64(1), int64(1), int64(2), int64(1)}
	cases := []struct {
		keep framecheck.UniqueKeep
		want []int
	}{
		{framecheck.KeepFirst, []int{1, 3}},
		{framecheck.KeepLast, []int{0, 1}},
		{framecheck.KeepNone, []int{0, 1, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.keep.String(), func(t *testing.T) {
			schema := framecheck.NewSeriesSchema("x", nil, framecheck.Unique(tc.keep))
			_, err := schema.Validate(context.Background(), framecheck.NewSeries("x", values))
			se, ok := framecheck.AsSchemaError(err)
			if !ok {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if se.ReasonCode != framecheck.CodeContainsDupes {
				t.Fatalf("expected series_contains_duplicates, got %s", se.ReasonCode)
			}
			if len(se.FailureCases) != len(tc.want) {
				t.Fatalf("keep=%s: expected indices %v, got %v", tc.keep, tc.want, se.FailureCases)
			}
			for i, fc := range se.FailureCases {
				if fc.Index != tc.want[i] {
					t.Fatalf("keep=%s: expected indices %v, got case %d at %d", tc.keep, tc.want, i, fc.Index)
				}
			}
		})
	}
}

func TestValidate_SubsamplingIsDeterministic(t *testing.T) {
	var first, second []int
	record := func(dst *[]int) framecheck.Check {
		return framecheck.NewColumnCheck("record", func(ctx context.Context, s *framecheck.Series) (framecheck.CheckOutcome, error) {
			for i := 0; i < s.Len(); i++ {
				*dst = append(*dst, s.Label(i))
			}
			return framecheck.CheckOutcome{Passed: true}, nil
		})
	}
	values := make([]any, 100)
	for i := range values {
		values[i] = int64(i)
	}
	opt := framecheck.Options{Sample: 7, RandomState: 42}

	s1 := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(record(&first)))
	if _, err := s1.Validate(context.Background(), framecheck.NewSeries("x", values), opt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2 := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(record(&second)))
	if _, err := s2.Validate(context.Background(), framecheck.NewSeries("x", values), opt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 7 {
		t.Fatalf("expected 7 sampled rows, got %d", len(first))
	}
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("expected identical subsets, got %v vs %v", first, second)
	}
}

func TestValidate_HeadTailUnionObservedByChecks(t *testing.T) {
	var seen []int
	record := framecheck.NewColumnCheck("record", func(ctx context.Context, s *framecheck.Series) (framecheck.CheckOutcome, error) {
		for i := 0; i < s.Len(); i++ {
			seen = append(seen, s.Label(i))
		}
		return framecheck.CheckOutcome{Passed: true}, nil
	})
	values := []any{int64(0), int64(1), int64(2), int64(3), int64(4)}
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(record))
	if _, err := schema.Validate(context.Background(), framecheck.NewSeries("x", values), framecheck.Options{Head: 2, Tail: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(seen) != fmt.Sprint([]int{0, 1, 4}) {
		t.Fatalf("expected rows [0 1 4], got %v", seen)
	}
}

func TestValidate_CoercionFailureLeavesInputUntouched(t *testing.T) {
	schema := framecheck.NewSeriesSchema("n", dtype.Int64, framecheck.Coerce())
	in := framecheck.NewSeries("n", []any{"1", "x", "3"})

	_, err := schema.Validate(context.Background(), in)
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeCoerceDType {
		t.Fatalf("expected coerce_dtype, got %s", se.ReasonCode)
	}
	if len(se.FailureCases) != 1 || se.FailureCases[0].Index != 1 || se.FailureCases[0].Value != "x" {
		t.Fatalf("expected failure case (1, x), got %v", se.FailureCases)
	}
	for i, want := range []any{"1", "x", "3"} {
		if in.Value(i) != want {
			t.Fatalf("input mutated at %d: %v", i, in.Value(i))
		}
	}
}

func TestValidate_CoercionFailureIsIndependentOfStructuralFailures(t *testing.T) {
	schema := framecheck.NewSeriesSchema("n", dtype.Int64, framecheck.Coerce(), framecheck.Unique(framecheck.KeepFirst))
	in := framecheck.NewSeries("n", []any{"x", "x"})

	_, err := schema.Validate(context.Background(), in, framecheck.Options{Lazy: true})
	agg, ok := framecheck.AsSchemaErrors(err)
	if !ok {
		t.Fatalf("expected SchemaErrors, got %v", err)
	}
	got := map[string]bool{}
	for _, se := range agg.Errors {
		got[se.ReasonCode] = true
	}
	if !got[framecheck.CodeCoerceDType] || !got[framecheck.CodeContainsDupes] {
		t.Fatalf("expected coerce_dtype and series_contains_duplicates together, got %v", agg)
	}
}

func TestValidate_SchemaAssociationSurvivesCoercion(t *testing.T) {
	schema := framecheck.NewSeriesSchema("n", dtype.Int64, framecheck.Coerce())
	in := framecheck.NewSeries("n", []any{"1", "2"})

	out, err := schema.Validate(context.Background(), in)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.Schema() != framecheck.SchemaRef(schema) {
		t.Fatalf("expected coerced output to retain the schema association")
	}
	if out.Value(0) != int64(1) || out.Value(1) != int64(2) {
		t.Fatalf("expected coerced values, got %v %v", out.Value(0), out.Value(1))
	}
}

func TestValidate_BrokenCheckDowngradedToCheckError(t *testing.T) {
	boom := framecheck.NewColumnCheck("boom", func(ctx context.Context, s *framecheck.Series) (framecheck.CheckOutcome, error) {
		panic("kaput")
	})
	failing := framecheck.Gt(int64(10))
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(boom, failing))
	in := framecheck.NewSeries("x", []any{int64(1)})

	_, err := schema.Validate(context.Background(), in, framecheck.Options{Lazy: true})
	agg, ok := framecheck.AsSchemaErrors(err)
	if !ok {
		t.Fatalf("expected SchemaErrors, got %v", err)
	}
	if len(agg.Errors) != 2 {
		t.Fatalf("expected the broken check not to abort the rest, got %v", agg)
	}
	if agg.Errors[0].ReasonCode != framecheck.CodeCheckError {
		t.Fatalf("expected check_error first, got %s", agg.Errors[0].ReasonCode)
	}
	if agg.Errors[1].ReasonCode != framecheck.CodeDataFrameCheck {
		t.Fatalf("expected dataframe_check second, got %s", agg.Errors[1].ReasonCode)
	}
}

func TestValidate_MisSizedMaskDowngradedToCheckError(t *testing.T) {
	short := framecheck.NewColumnCheck("short_mask", func(ctx context.Context, s *framecheck.Series) (framecheck.CheckOutcome, error) {
		return framecheck.CheckOutcome{Mask: []bool{false}}, nil
	})
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(short))
	in := framecheck.NewSeries("x", []any{int64(1), int64(2), int64(3)})

	_, err := schema.Validate(context.Background(), in)
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeCheckError {
		t.Fatalf("expected check_error for a mis-sized mask, got %s", se.ReasonCode)
	}
}

func TestValidate_WrappedCheckErrorUnwrapsToCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := fmt.Errorf("dispatch failed: %w", cause)
	chk := framecheck.NewColumnCheck("flaky", func(ctx context.Context, s *framecheck.Series) (framecheck.CheckOutcome, error) {
		return framecheck.CheckOutcome{}, wrapped
	})
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(chk))

	_, err := schema.Validate(context.Background(), framecheck.NewSeries("x", []any{int64(1)}))
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeCheckError {
		t.Fatalf("expected check_error, got %s", se.ReasonCode)
	}
	if se.Cause != cause {
		t.Fatalf("expected the underlying cause, got %v", se.Cause)
	}
}

func TestValidate_InplaceSkipsCopy(t *testing.T) {
	schema := framecheck.NewSeriesSchema("n", dtype.Int64)
	in := framecheck.NewSeries("n", []any{int64(1)})

	out, err := schema.Validate(context.Background(), in, framecheck.Options{Inplace: true})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out != in {
		t.Fatalf("inplace validation must return the input object")
	}
}
