package framecheck

import (
	"github.com/framecheck/framecheck/dtype"
)

// seriesCore carries the declaration shared by every field-shaped schema
// (series, frame column, index). It is fixed at construction.
type seriesCore struct {
	name     string
	dtype    dtype.DType // nil = unspecified
	nullable bool
	unique   bool
	keep     UniqueKeep
	coerce   bool
	checks   []Check
}

// SchemaOption configures a field-shaped schema at construction time.
type SchemaOption func(*seriesCore)

// Nullable allows null values in the field.
func Nullable() SchemaOption {
	return func(c *seriesCore) { c.nullable = true }
}

// Unique forbids duplicate values; keep selects which occurrence of a
// duplicate is not reported.
func Unique(keep UniqueKeep) SchemaOption {
	return func(c *seriesCore) { c.unique = true; c.keep = keep }
}

// Coerce converts the field to the declared dtype before any check runs.
func Coerce() SchemaOption {
	return func(c *seriesCore) { c.coerce = true }
}

// Checks appends declared checks; they run after the structural checks, in
// declaration order.
func Checks(checks ...Check) SchemaOption {
	return func(c *seriesCore) { c.checks = append(c.checks, checks...) }
}

func newCore(name string, dt dtype.DType, opts []SchemaOption) seriesCore {
	c := seriesCore{name: name, dtype: dt}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SeriesSchema validates a standalone Series. Immutable after construction
// and safe to share across concurrent Validate calls.
type SeriesSchema struct {
	core seriesCore
}

// NewSeriesSchema builds a series schema. An empty name leaves the name
// unchecked; a nil dtype leaves the dtype unchecked.
func NewSeriesSchema(name string, dt dtype.DType, opts ...SchemaOption) *SeriesSchema {
	return &SeriesSchema{core: newCore(name, dt, opts)}
}

func (s *SeriesSchema) SchemaName() string      { return s.core.name }
func (s *SeriesSchema) DType() dtype.DType      { return s.core.dtype }
func (s *SeriesSchema) IsNullable() bool        { return s.core.nullable }
func (s *SeriesSchema) IsUnique() bool          { return s.core.unique }
func (s *SeriesSchema) Keep() UniqueKeep        { return s.core.keep }
func (s *SeriesSchema) DoesCoerce() bool        { return s.core.coerce }
func (s *SeriesSchema) DeclaredChecks() []Check { return s.core.checks }

// Column declares one frame column. Unlike SeriesSchema the name is
// required; it is the lookup key into the frame.
type Column struct {
	core seriesCore
}

// NewColumn builds a column declaration.
func NewColumn(name string, dt dtype.DType, opts ...SchemaOption) *Column {
	return &Column{core: newCore(name, dt, opts)}
}

func (c *Column) SchemaName() string      { return c.core.name }
func (c *Column) Name() string            { return c.core.name }
func (c *Column) DType() dtype.DType      { return c.core.dtype }
func (c *Column) IsNullable() bool        { return c.core.nullable }
func (c *Column) IsUnique() bool          { return c.core.unique }
func (c *Column) Keep() UniqueKeep        { return c.core.keep }
func (c *Column) DoesCoerce() bool        { return c.core.coerce }
func (c *Column) DeclaredChecks() []Check { return c.core.checks }

// Index declares constraints on a frame's row labels.
type Index struct {
	core seriesCore
}

// NewIndex builds an index declaration.
func NewIndex(dt dtype.DType, opts ...SchemaOption) *Index {
	return &Index{core: newCore("", dt, opts)}
}

func (ix *Index) SchemaName() string { return "index" }
func (ix *Index) DType() dtype.DType { return ix.core.dtype }
func (ix *Index) IsUnique() bool     { return ix.core.unique }

// FrameOption configures a DataFrameSchema at construction time.
type FrameOption func(*DataFrameSchema)

// FrameName names the schema for error reports.
func FrameName(name string) FrameOption {
	return func(s *DataFrameSchema) { s.name = name }
}

// FrameChecks appends frame-level declared checks.
func FrameChecks(checks ...Check) FrameOption {
	return func(s *DataFrameSchema) { s.checks = append(s.checks, checks...) }
}

// WithIndex attaches an index declaration.
func WithIndex(ix *Index) FrameOption {
	return func(s *DataFrameSchema) { s.index = ix }
}

// FrameCoerce coerces every declared column, regardless of per-column
// coerce flags.
func FrameCoerce() FrameOption {
	return func(s *DataFrameSchema) { s.coerce = true }
}

// DataFrameSchema validates a DataFrame: each declared column through the
// field pipeline, then frame-level checks. Immutable after construction.
type DataFrameSchema struct {
	name    string
	columns []*Column
	index   *Index
	checks  []Check
	coerce  bool
}

// NewDataFrameSchema builds a frame schema from column declarations in
// validation order.
func NewDataFrameSchema(columns []*Column, opts ...FrameOption) *DataFrameSchema {
	s := &DataFrameSchema{columns: columns}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DataFrameSchema) SchemaName() string {
	if s.name != "" {
		return s.name
	}
	return "dataframe"
}

func (s *DataFrameSchema) Columns() []*Column      { return s.columns }
func (s *DataFrameSchema) Index() *Index           { return s.index }
func (s *DataFrameSchema) DeclaredChecks() []Check { return s.checks }
func (s *DataFrameSchema) DoesCoerce() bool        { return s.coerce }
