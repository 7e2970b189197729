// Package table holds the column-oriented record table shared by the parser,
// the normalizer and the plotting layer.
package table

import (
	"errors"
	"fmt"
	"math"
)

// ErrColumnMissing is returned when a named column is not in the table.
var ErrColumnMissing = errors.New("column missing")

// Column is a named series of values. Missing entries are NaN.
type Column struct {
	Name   string
	Values []float64
}

// Table is an ordered set of equally long columns.
//
// Transforms (Drop, Select, WithColumn, Join, Clone) return a new Table and
// never touch the receiver. Add is the only mutator and is meant for building.
type Table struct {
	rows  int
	cols  []Column
	index map[string]int
}

// New returns an empty table that will hold rows entries per column.
func New(rows int) *Table {
	return &Table{rows: rows, index: map[string]int{}}
}

// Add appends a column. The values are copied.
func (t *Table) Add(name string, values []float64) error {
	if name == "" {
		return errors.New("add column: empty name")
	}
	if len(values) != t.rows {
		return fmt.Errorf("add column %q: %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, dup := t.index[name]; dup {
		return fmt.Errorf("add column %q: duplicate name", name)
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, Column{Name: name, Values: cp})
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Empty reports whether the table has no columns.
func (t *Table) Empty() bool { return t.Width() == 0 }

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Column returns the values of the named column. The slice is shared with
// the table and must not be modified.
func (t *Table) Column(name string) ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Values, true
}

// MustColumn is Column for callers that already checked Has.
func (t *Table) MustColumn(name string) []float64 {
	v, ok := t.Column(name)
	if !ok {
		panic(fmt.Sprintf("table: %s: %q", ErrColumnMissing, name))
	}
	return v
}

// Names returns column names in order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Values[i]
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Len())
	if t == nil {
		return out
	}
	for _, c := range t.cols {
		_ = out.Add(c.Name, c.Values)
	}
	return out
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := New(t.Len())
	if t == nil {
		return out
	}
	for _, c := range t.cols {
		if _, ok := skip[c.Name]; ok {
			continue
		}
		_ = out.Add(c.Name, c.Values)
	}
	return out
}

// Select returns a copy holding only the given rows, in the given order.
func (t *Table) Select(rows []int) *Table {
	out := New(len(rows))
	if t == nil {
		return out
	}
	buf := make([]float64, len(rows))
	for _, c := range t.cols {
		for k, r := range rows {
			buf[k] = c.Values[r]
		}
		_ = out.Add(c.Name, buf)
	}
	return out
}

// Where returns a copy holding the rows for which keep returns true.
func (t *Table) Where(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Select(rows)
}

// WithColumn returns a copy with the named column set to values, replacing
// an existing column in place or appending a new one.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if len(values) != t.Len() {
		return nil, fmt.Errorf("set column %q: %d values, table has %d rows", name, len(values), t.Len())
	}
	out := New(t.Len())
	replaced := false
	for _, c := range t.cols {
		v := c.Values
		if c.Name == name {
			v = values
			replaced = true
		}
		if err := out.Add(c.Name, v); err != nil {
			return nil, err
		}
	}
	if !replaced {
		if err := out.Add(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Join concatenates the columns of t and others by row position. Empty
// tables are skipped. All non-empty tables must share the row count, and
// column names must not collide.
func (t *Table) Join(others ...*Table) (*Table, error) {
	all := append([]*Table{t}, others...)
	rows := -1
	for _, o := range all {
		if o.Empty() {
			continue
		}
		if rows < 0 {
			rows = o.rows
			continue
		}
		if o.rows != rows {
			return nil, fmt.Errorf("join: row count %d does not match %d", o.rows, rows)
		}
	}
	if rows < 0 {
		rows = t.Len()
	}
	out := New(rows)
	for _, o := range all {
		if o.Empty() {
			continue
		}
		for _, c := range o.cols {
			if out.Has(c.Name) {
				return nil, fmt.Errorf("join: column %q appears twice", c.Name)
			}
			if err := out.Add(c.Name, c.Values); err != nil {
				return nil, fmt.Errorf("join: %w", err)
			}
		}
	}
	return out, nil
}

// Unique returns the distinct non-NaN values of a column in first-seen order.
func (t *Table) Unique(name string) []float64 {
	vals, ok := t.Column(name)
	if !ok {
		return nil
	}
	seen := map[float64]struct{}{}
	var out []float64
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
