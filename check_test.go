package framecheck_test

import (
	"context"
	"testing"

	framecheck "github.com/framecheck/framecheck"
)

// runElementCheck validates a single-column series against one check and
// returns the failing row indices.
func runElementCheck(t *testing.T, chk framecheck.Check, values []any) []int {
	t.Helper()
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Nullable(), framecheck.Checks(chk))
	_, err := schema.Validate(context.Background(), framecheck.NewSeries("x", values))
	if err == nil {
		return nil
	}
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeDataFrameCheck {
		t.Fatalf("expected dataframe_check, got %s", se.ReasonCode)
	}
	var idx []int
	for _, fc := range se.FailureCases {
		idx = append(idx, fc.Index)
	}
	return idx
}

func TestBuiltinChecks(t *testing.T) {
	cases := []struct {
		name   string
		check  framecheck.Check
		values []any
		want   []int
	}{
		{"gt", framecheck.Gt(int64(0)), []any{int64(1), int64(0), int64(-1)}, []int{1, 2}},
		{"ge", framecheck.Ge(int64(0)), []any{int64(1), int64(0), int64(-1)}, []int{2}},
		{"lt", framecheck.Lt(10.0), []any{5.0, 10.0, 20.0}, []int{1, 2}},
		{"le", framecheck.Le(10.0), []any{5.0, 10.0, 20.0}, []int{2}},
		{"eq", framecheck.Eq("a"), []any{"a", "b"}, []int{1}},
		{"ne", framecheck.Ne("a"), []any{"a", "b"}, []int{0}},
		{"in_range", framecheck.InRange(int64(0), int64(10)), []any{int64(5), int64(50)}, []int{1}},
		{"isin", framecheck.Isin("red", "green"), []any{"red", "blue"}, []int{1}},
		{"notin", framecheck.NotIn("red"), []any{"red", "blue"}, []int{0}},
		{"str_matches", framecheck.StrMatches(`^[a-z]+$`), []any{"abc", "ABC"}, []int{1}},
		{"mixed_numeric", framecheck.Gt(0), []any{int64(1), 2.5, -3.0}, []int{2}},
		{"nulls_skipped", framecheck.Gt(int64(0)), []any{nil, int64(1)}, nil},
		{"incomparable", framecheck.Gt(int64(0)), []any{"nope"}, []int{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runElementCheck(t, tc.check, tc.values)
			if len(got) != len(tc.want) {
				t.Fatalf("expected failing rows %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("expected failing rows %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestStrMatches_BadPatternIsCheckError(t *testing.T) {
	schema := framecheck.NewSeriesSchema("x", nil, framecheck.Checks(framecheck.StrMatches("(")))
	_, err := schema.Validate(context.Background(), framecheck.NewSeries("x", []any{"a"}))
	se, ok := framecheck.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.ReasonCode != framecheck.CodeCheckError {
		t.Fatalf("expected check_error for a bad pattern, got %s", se.ReasonCode)
	}
}

func TestCheckAccessors(t *testing.T) {
	chk := framecheck.InRange(int64(0), int64(10))
	if chk.ID() != "in_range" {
		t.Fatalf("expected id in_range, got %s", chk.ID())
	}
	if chk.Scope() != framecheck.ScopeElement {
		t.Fatalf("expected element scope")
	}
	if chk.Params()["min"] != int64(0) || chk.Params()["max"] != int64(10) {
		t.Fatalf("expected structured params, got %v", chk.Params())
	}
}
