// Package schemaio reads and writes frame schemas as YAML or JSON
// documents, so schemas can live next to the pipelines they guard.
package schemaio

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/framecheck/framecheck"
	"github.com/framecheck/framecheck/dtype"
)

type frameDoc struct {
	SchemaType string      `yaml:"schema_type" json:"schema_type"`
	Name       string      `yaml:"name,omitempty" json:"name,omitempty"`
	Coerce     bool        `yaml:"coerce,omitempty" json:"coerce,omitempty"`
	Columns    []columnDoc `yaml:"columns" json:"columns"`
	Index      *indexDoc   `yaml:"index,omitempty" json:"index,omitempty"`
	Checks     []checkDoc  `yaml:"checks,omitempty" json:"checks,omitempty"`
}

type columnDoc struct {
	Name     string     `yaml:"name" json:"name"`
	DType    string     `yaml:"dtype,omitempty" json:"dtype,omitempty"`
	Nullable bool       `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Unique   bool       `yaml:"unique,omitempty" json:"unique,omitempty"`
	Keep     string     `yaml:"keep,omitempty" json:"keep,omitempty"`
	Coerce   bool       `yaml:"coerce,omitempty" json:"coerce,omitempty"`
	Checks   []checkDoc `yaml:"checks,omitempty" json:"checks,omitempty"`
}

type indexDoc struct {
	DType  string `yaml:"dtype,omitempty" json:"dtype,omitempty"`
	Unique bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
}

type checkDoc struct {
	Name    string `yaml:"name" json:"name"`
	Value   any    `yaml:"value,omitempty" json:"value,omitempty"`
	Min     any    `yaml:"min,omitempty" json:"min,omitempty"`
	Max     any    `yaml:"max,omitempty" json:"max,omitempty"`
	Values  []any  `yaml:"values,omitempty" json:"values,omitempty"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// FromYAML builds a frame schema from a YAML document.
func FromYAML(data []byte) (*framecheck.DataFrameSchema, error) {
	var doc frameDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemaio: %w", err)
	}
	return buildSchema(doc)
}

// FromJSON builds a frame schema from a JSON document.
func FromJSON(data []byte) (*framecheck.DataFrameSchema, error) {
	var doc frameDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemaio: %w", err)
	}
	return buildSchema(doc)
}

// ToYAML serializes a frame schema. Hand-written checks cannot be
// serialized and yield an error.
func ToYAML(s *framecheck.DataFrameSchema) ([]byte, error) {
	doc, err := buildDoc(s)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// ToJSON serializes a frame schema.
func ToJSON(s *framecheck.DataFrameSchema) ([]byte, error) {
	doc, err := buildDoc(s)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

func buildSchema(doc frameDoc) (*framecheck.DataFrameSchema, error) {
	if doc.SchemaType != "" && doc.SchemaType != "dataframe" {
		return nil, fmt.Errorf("schemaio: unsupported schema_type %q", doc.SchemaType)
	}
	columns := make([]*framecheck.Column, 0, len(doc.Columns))
	for _, cd := range doc.Columns {
		if cd.Name == "" {
			return nil, fmt.Errorf("schemaio: column without a name")
		}
		var dt dtype.DType
		if cd.DType != "" {
			var err error
			if dt, err = dtype.FromString(cd.DType); err != nil {
				return nil, fmt.Errorf("schemaio: column %q: %w", cd.Name, err)
			}
		}
		var opts []framecheck.SchemaOption
		if cd.Nullable {
			opts = append(opts, framecheck.Nullable())
		}
		if cd.Unique {
			keep, err := parseKeep(cd.Keep)
			if err != nil {
				return nil, fmt.Errorf("schemaio: column %q: %w", cd.Name, err)
			}
			opts = append(opts, framecheck.Unique(keep))
		}
		if cd.Coerce {
			opts = append(opts, framecheck.Coerce())
		}
		for _, chd := range cd.Checks {
			chk, err := buildCheck(chd)
			if err != nil {
				return nil, fmt.Errorf("schemaio: column %q: %w", cd.Name, err)
			}
			opts = append(opts, framecheck.Checks(chk))
		}
		columns = append(columns, framecheck.NewColumn(cd.Name, dt, opts...))
	}

	var fopts []framecheck.FrameOption
	if doc.Name != "" {
		fopts = append(fopts, framecheck.FrameName(doc.Name))
	}
	if doc.Coerce {
		fopts = append(fopts, framecheck.FrameCoerce())
	}
	if doc.Index != nil {
		var dt dtype.DType
		if doc.Index.DType != "" {
			var err error
			if dt, err = dtype.FromString(doc.Index.DType); err != nil {
				return nil, fmt.Errorf("schemaio: index: %w", err)
			}
		}
		var iopts []framecheck.SchemaOption
		if doc.Index.Unique {
			iopts = append(iopts, framecheck.Unique(framecheck.KeepFirst))
		}
		fopts = append(fopts, framecheck.WithIndex(framecheck.NewIndex(dt, iopts...)))
	}
	if len(doc.Checks) > 0 {
		return nil, fmt.Errorf("schemaio: frame-level checks in documents are not supported; attach them with FrameChecks")
	}
	return framecheck.NewDataFrameSchema(columns, fopts...), nil
}

func buildDoc(s *framecheck.DataFrameSchema) (frameDoc, error) {
	doc := frameDoc{SchemaType: "dataframe", Coerce: s.DoesCoerce()}
	if s.SchemaName() != "dataframe" {
		doc.Name = s.SchemaName()
	}
	for _, col := range s.Columns() {
		cd := columnDoc{
			Name:     col.Name(),
			Nullable: col.IsNullable(),
			Unique:   col.IsUnique(),
			Coerce:   col.DoesCoerce(),
		}
		if col.DType() != nil {
			cd.DType = col.DType().String()
		}
		if col.IsUnique() {
			cd.Keep = col.Keep().String()
		}
		for _, chk := range col.DeclaredChecks() {
			chd, err := encodeCheck(chk)
			if err != nil {
				return frameDoc{}, fmt.Errorf("schemaio: column %q: %w", col.Name(), err)
			}
			cd.Checks = append(cd.Checks, chd)
		}
		doc.Columns = append(doc.Columns, cd)
	}
	if len(s.DeclaredChecks()) > 0 {
		return frameDoc{}, fmt.Errorf("schemaio: frame-level checks are not serializable")
	}
	if ix := s.Index(); ix != nil {
		id := &indexDoc{Unique: ix.IsUnique()}
		if ix.DType() != nil {
			id.DType = ix.DType().String()
		}
		doc.Index = id
	}
	return doc, nil
}

func parseKeep(s string) (framecheck.UniqueKeep, error) {
	switch s {
	case "", "first":
		return framecheck.KeepFirst, nil
	case "last":
		return framecheck.KeepLast, nil
	case "all", "none":
		return framecheck.KeepNone, nil
	}
	return framecheck.KeepFirst, fmt.Errorf("unknown keep policy %q", s)
}

func buildCheck(doc checkDoc) (framecheck.Check, error) {
	switch doc.Name {
	case "greater_than":
		return framecheck.Gt(doc.Value), nil
	case "greater_than_or_equal_to":
		return framecheck.Ge(doc.Value), nil
	case "less_than":
		return framecheck.Lt(doc.Value), nil
	case "less_than_or_equal_to":
		return framecheck.Le(doc.Value), nil
	case "equal_to":
		return framecheck.Eq(doc.Value), nil
	case "not_equal_to":
		return framecheck.Ne(doc.Value), nil
	case "in_range":
		return framecheck.InRange(doc.Min, doc.Max), nil
	case "isin":
		return framecheck.Isin(doc.Values...), nil
	case "notin":
		return framecheck.NotIn(doc.Values...), nil
	case "str_matches":
		return framecheck.StrMatches(doc.Pattern), nil
	}
	return framecheck.Check{}, fmt.Errorf("unknown check %q", doc.Name)
}

func encodeCheck(chk framecheck.Check) (checkDoc, error) {
	id := chk.ID()
	if id == "" {
		return checkDoc{}, fmt.Errorf("check %q is not serializable", chk.Name())
	}
	doc := checkDoc{Name: id}
	params := chk.Params()
	switch id {
	case "in_range":
		doc.Min = params["min"]
		doc.Max = params["max"]
	case "isin", "notin":
		doc.Values, _ = params["values"].([]any)
	case "str_matches":
		doc.Pattern, _ = params["pattern"].(string)
	default:
		doc.Value = params["value"]
	}
	return doc, nil
}
