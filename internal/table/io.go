package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// Format names a persisted table encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatArrow Format = "arrow"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatTSV, "tab":
		return FormatTSV, nil
	case FormatArrow, "ipc", "feather":
		return FormatArrow, nil
	default:
		return "", fmt.Errorf("unsupported table format: %s (use csv|tsv|arrow)", s)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatTSV:
		return ".tsv"
	case FormatArrow:
		return ".arrow"
	default:
		return ".csv"
	}
}

// FormatFromPath picks a format from a file extension, defaulting to csv.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".arrow", ".ipc", ".feather":
		return FormatArrow
	default:
		return FormatCSV
	}
}

// WriteDelimited writes a header row followed by one line per row. NaN is
// written as an empty field; other values use the shortest representation
// that parses back to the same float64.
func (t *Table) WriteDelimited(w io.Writer, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.cols {
			rec[j] = FormatValue(c.Values[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatValue renders a cell the way WriteDelimited does.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadDelimited reads a table written by WriteDelimited. Empty cells become NaN.
func ReadDelimited(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(0), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([][]float64, len(header))
	rows := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		rows++
		for j := range header {
			v := math.NaN()
			if j < len(rec) {
				if s := strings.TrimSpace(rec[j]); s != "" {
					f, err := strconv.ParseFloat(s, 64)
					if err != nil {
						return nil, fmt.Errorf("row %d column %q: %w", rows, header[j], err)
					}
					v = f
				}
			}
			cols[j] = append(cols[j], v)
		}
	}
	t := New(rows)
	for j, name := range header {
		if cols[j] == nil {
			cols[j] = []float64{}
		}
		if err := t.Add(strings.TrimSpace(name), cols[j]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteFile persists the table at path in the given format.
func (t *Table) WriteFile(path string, format Format) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatArrow:
		err = t.WriteArrow(&buf)
	case FormatTSV:
		err = t.WriteDelimited(&buf, '\t')
	default:
		err = t.WriteDelimited(&buf, ',')
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// ReadFile loads a table written by WriteFile. Files without a tsv or arrow
// extension have their delimiter sniffed from the content.
func ReadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	switch FormatFromPath(path) {
	case FormatArrow:
		return ReadArrow(bytes.NewReader(b))
	case FormatTSV:
		return ReadDelimited(bytes.NewReader(b), '\t')
	}
	return ReadDelimited(bytes.NewReader(b), DetectDelimiter(bytes.NewReader(b)))
}

// DetectDelimiter returns the most likely field delimiter of a CSV-like
// stream, defaulting to a comma. Candidates other than the usual table
// separators (a leading minus sign, say) are ignored.
func DetectDelimiter(r io.Reader) rune {
	d := detector.New()
	for _, cand := range d.DetectDelimiter(r, '"') {
		switch cand {
		case ",", "\t", ";", "|":
			return rune(cand[0])
		}
	}
	return ','
}
