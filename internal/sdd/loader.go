package sdd

import (
	"fmt"
	"strings"
)

// RawTable is the report body split into named string columns, one cell
// per damage event.
type RawTable struct {
	names []string
	cols  [][]string
	rows  int
}

// Len returns the number of body rows.
func (r *RawTable) Len() int { return r.rows }

// Names returns the column names in body order.
func (r *RawTable) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Column returns the cells of a named field.
func (r *RawTable) Column(name string) ([]string, error) {
	for i, n := range r.names {
		if n == name {
			return r.cols[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrColumnMissing)
}

// LoadBody splits the body rows on ";", drops columns that are empty on every
// row and names the rest after the header bitmask.
func LoadBody(h *Header) (*RawTable, error) {
	names := h.Columns()
	if len(h.Presence) == 0 {
		return nil, ErrNoColumnPresence
	}

	body := h.Body()
	width := 0
	cells := make([][]string, len(body))
	for i, line := range body {
		cells[i] = strings.Split(line, ";")
		if len(cells[i]) > width {
			width = len(cells[i])
		}
	}

	var keep []int
	for j := 0; j < width; j++ {
		for i := range cells {
			if j < len(cells[i]) && strings.TrimSpace(cells[i][j]) != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) != len(names) {
		return nil, &SchemaMismatchError{Flagged: len(names), Found: len(keep)}
	}

	raw := &RawTable{names: names, cols: make([][]string, len(keep)), rows: len(body)}
	for k, j := range keep {
		col := make([]string, len(body))
		for i := range cells {
			if j < len(cells[i]) {
				col[i] = strings.TrimSpace(cells[i][j])
			}
		}
		raw.cols[k] = col
	}
	return raw, nil
}
