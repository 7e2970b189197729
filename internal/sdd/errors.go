package sdd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// ErrColumnMissing indicates the body has no column for a field.
var ErrColumnMissing = table.ErrColumnMissing

// ErrNoColumnPresence indicates the header carried no usable "Data entries" bitmask.
var ErrNoColumnPresence = errors.New("header has no data entries bitmask")

// SchemaMismatchError indicates the body width disagrees with the header
// bitmask. The report cannot be trusted and parsing stops.
type SchemaMismatchError struct {
	Flagged int // fields flagged present in the header
	Found   int // non-empty columns in the body
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: header flags %d fields but body has %d non-empty columns", e.Flagged, e.Found)
}

// DecodeError indicates a composite field could not be split or typed.
// Extraction treats it as "this column family is unavailable".
type DecodeError struct {
	Field string
	Row   int // 1-based body row, 0 when not tied to a row
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Row > 0 && e.Value != "":
		return fmt.Sprintf("decode %s row %d (%q): %v", e.Field, e.Row, e.Value, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("decode %s row %d: %v", e.Field, e.Row, e.Err)
	default:
		return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }
