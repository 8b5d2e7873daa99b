package framecheck

import (
	"fmt"
	"time"
)

// Series is the reference in-memory column representation: a name, a slice
// of values (nil marks a null), and row labels that survive subsampling so
// failure cases always report original row indices. A Series may carry the
// schema that last validated it.
type Series struct {
	name   string
	values []any
	index  []int
	schema SchemaRef
}

// NewSeries builds a Series with row labels 0..len-1.
func NewSeries(name string, values []any) *Series {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	return &Series{name: name, values: values, index: idx}
}

func (s *Series) Name() string { return s.name }
func (s *Series) Len() int     { return len(s.values) }

// Value returns the element at position i (not row label i).
func (s *Series) Value(i int) any { return s.values[i] }

// Label returns the row label at position i.
func (s *Series) Label(i int) int { return s.index[i] }

// Values returns the backing slice. Callers must treat it as read-only.
func (s *Series) Values() []any { return s.values }

// Schema returns the schema attached by a previous validation, if any. The
// association survives coercion.
func (s *Series) Schema() SchemaRef { return s.schema }

// Rename returns a copy of the series under a new name.
func (s *Series) Rename(name string) *Series {
	c := s.copy()
	c.name = name
	return c
}

// Equal reports value equality of name, labels and elements.
func (s *Series) Equal(other *Series) bool {
	if s.name != other.name || len(s.values) != len(other.values) {
		return false
	}
	for i := range s.values {
		if s.index[i] != other.index[i] {
			return false
		}
		if valueKey(s.values[i]) != valueKey(other.values[i]) {
			return false
		}
	}
	return true
}

func (s *Series) copy() *Series {
	values := make([]any, len(s.values))
	copy(values, s.values)
	index := make([]int, len(s.index))
	copy(index, s.index)
	return &Series{name: s.name, values: values, index: index, schema: s.schema}
}

// take selects positions (in order), preserving original row labels and any
// attached schema.
func (s *Series) take(pos []int) *Series {
	if pos == nil {
		return s
	}
	values := make([]any, len(pos))
	index := make([]int, len(pos))
	for i, p := range pos {
		values[i] = s.values[p]
		index[i] = s.index[p]
	}
	return &Series{name: s.name, values: values, index: index, schema: s.schema}
}

// isNull returns the per-position null mask.
func (s *Series) isNull() []bool {
	mask := make([]bool, len(s.values))
	for i, v := range s.values {
		mask[i] = v == nil
	}
	return mask
}

// duplicated returns the per-position duplicate mask under a keep policy.
// The mask depends only on the values, never on evaluation order or count.
func (s *Series) duplicated(keep UniqueKeep) []bool {
	counts := make(map[any]int, len(s.values))
	for _, v := range s.values {
		counts[valueKey(v)]++
	}
	mask := make([]bool, len(s.values))
	seen := make(map[any]bool, len(s.values))
	switch keep {
	case KeepNone:
		for i, v := range s.values {
			mask[i] = counts[valueKey(v)] > 1
		}
	case KeepLast:
		for i := len(s.values) - 1; i >= 0; i-- {
			k := valueKey(s.values[i])
			if counts[k] > 1 && seen[k] {
				mask[i] = true
			}
			seen[k] = true
		}
	default: // KeepFirst
		for i, v := range s.values {
			k := valueKey(v)
			if counts[k] > 1 && seen[k] {
				mask[i] = true
			}
			seen[k] = true
		}
	}
	return mask
}

type nullKey struct{}

// valueKey normalizes a value into a comparable map key so that, for
// example, int 1 and int64 1 count as the same value.
func valueKey(v any) any {
	switch n := v.(type) {
	case nil:
		return nullKey{}
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return normalizeFloat(float64(n))
	case float64:
		return normalizeFloat(n)
	case bool, string:
		return n
	case time.Time:
		return n.UTC().UnixNano()
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func normalizeFloat(f float64) any {
	if f == float64(int64(f)) {
		return int64(f)
	}
	return f
}
