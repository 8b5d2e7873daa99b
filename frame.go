package framecheck

import "fmt"

// DataFrame is the reference in-memory frame representation: ordered
// columns of equal length sharing one set of row labels.
type DataFrame struct {
	columns []*Series
	byName  map[string]int
}

// NewDataFrame builds a frame from columns. Column names must be unique and
// lengths must agree.
func NewDataFrame(columns ...*Series) (*DataFrame, error) {
	df := &DataFrame{byName: make(map[string]int, len(columns))}
	for _, col := range columns {
		if _, dup := df.byName[col.name]; dup {
			return nil, fmt.Errorf("framecheck: duplicate column %q", col.name)
		}
		if len(df.columns) > 0 && col.Len() != df.columns[0].Len() {
			return nil, fmt.Errorf("framecheck: column %q has length %d, want %d",
				col.name, col.Len(), df.columns[0].Len())
		}
		df.byName[col.name] = len(df.columns)
		df.columns = append(df.columns, col)
	}
	return df, nil
}

// Len is the row count.
func (df *DataFrame) Len() int {
	if len(df.columns) == 0 {
		return 0
	}
	return df.columns[0].Len()
}

// ColumnNames returns the column names in declaration order.
func (df *DataFrame) ColumnNames() []string {
	names := make([]string, len(df.columns))
	for i, col := range df.columns {
		names[i] = col.name
	}
	return names
}

// Column returns the named column.
func (df *DataFrame) Column(name string) (*Series, bool) {
	i, ok := df.byName[name]
	if !ok {
		return nil, false
	}
	return df.columns[i], true
}

func (df *DataFrame) copy() *DataFrame {
	c := &DataFrame{byName: make(map[string]int, len(df.columns))}
	for _, col := range df.columns {
		c.byName[col.name] = len(c.columns)
		c.columns = append(c.columns, col.copy())
	}
	return c
}

// setColumn replaces a column in place (used by coercion write-back).
func (df *DataFrame) setColumn(col *Series) {
	if i, ok := df.byName[col.name]; ok {
		df.columns[i] = col
		return
	}
	df.byName[col.name] = len(df.columns)
	df.columns = append(df.columns, col)
}

// take selects row positions across every column.
func (df *DataFrame) take(pos []int) *DataFrame {
	if pos == nil {
		return df
	}
	c := &DataFrame{byName: make(map[string]int, len(df.columns))}
	for _, col := range df.columns {
		c.byName[col.name] = len(c.columns)
		c.columns = append(c.columns, col.take(pos))
	}
	return c
}
