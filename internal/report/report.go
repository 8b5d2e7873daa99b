// Package report renders validation failures as tables for human and
// machine consumption.
package report

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/framecheck/framecheck"
)

// Row is one failure case flattened for rendering.
type Row struct {
	Schema string `json:"schema"`
	Check  string `json:"check"`
	Code   string `json:"reason_code"`
	Index  any    `json:"index"`
	Value  any    `json:"value"`
}

// Rows flattens a validation error (single or aggregate) into failure-case
// rows, preserving execution order.
func Rows(err error) []Row {
	var errs []*framecheck.SchemaError
	if agg, ok := framecheck.AsSchemaErrors(err); ok {
		errs = agg.Errors
	} else if se, ok := framecheck.AsSchemaError(err); ok {
		errs = []*framecheck.SchemaError{se}
	}
	var rows []Row
	for _, se := range errs {
		name := ""
		if se.Schema != nil {
			name = se.Schema.SchemaName()
		}
		if len(se.FailureCases) == 0 {
			rows = append(rows, Row{Schema: name, Check: se.Check, Code: se.ReasonCode, Index: "-"})
			continue
		}
		for _, fc := range se.FailureCases {
			var idx any = fc.Index
			if fc.Index == framecheck.ScalarIndex {
				idx = "-"
			}
			rows = append(rows, Row{
				Schema: name,
				Check:  se.Check,
				Code:   se.ReasonCode,
				Index:  idx,
				Value:  fc.Value,
			})
		}
	}
	return rows
}

// Markdown renders the failure cases as a markdown table.
func Markdown(err error) string {
	rows := Rows(err)
	if len(rows) == 0 {
		return ""
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "# Validation report\n\n%d failure case(s)\n\n", len(rows))
	b.WriteString("| schema | check | reason_code | index | value |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %v | %v |\n",
			escape(r.Schema), escape(r.Check), r.Code, r.Index, escape(fmt.Sprint(r.Value)))
	}
	return b.String()
}

// JSON renders the failure cases as a JSON array.
func JSON(err error) ([]byte, error) {
	return json.MarshalIndent(Rows(err), "", "  ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
