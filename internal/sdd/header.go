package sdd

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the metadata recovered from the report header block.
type Header struct {
	// Presence flags the canonical fields carried by each body row.
	Presence []bool
	// DataStart indexes the first body row within Lines.
	DataStart int
	// Volumes describes the nucleus geometry: 7 floats (shape + two corners)
	// or 14 floats (placeholder block, shape, two corners). Nil when absent.
	Volumes []float64
	// Damage is the raw "Damage definition" list.
	Damage []string
	// Lines are the non-blank report lines; indices above refer to them.
	Lines []string
	// Warnings collects markers that could not be read.
	Warnings []string
}

// DamageDefinition holds the parameters that decide whether two strand
// breaks form a double-strand break.
type DamageDefinition struct {
	Flag      int
	Threshold float64
}

// ScanHeader drops blank lines and reads the four header markers from what
// remains. A marker that cannot be read keeps its default and adds a warning.
func ScanHeader(lines []string) *Header {
	h := &Header{}
	for _, l := range lines {
		l = strings.TrimRight(l, "\r\n")
		if strings.TrimSpace(l) == "" {
			continue
		}
		h.Lines = append(h.Lines, l)
	}

	sawEnd := false
	for i, line := range h.Lines {
		if strings.Contains(line, markerEndOfHeader) {
			h.DataStart = i + 1
			sawEnd = true
		}
		if strings.Contains(line, markerDataEntries) {
			h.Presence = nil
			flags, err := parseFlags(markerValue(line, markerDataEntries))
			if err != nil {
				h.warn(markerDataEntries, i, err)
			} else {
				h.Presence = flags
			}
		}
		if strings.Contains(line, markerVolumes) {
			h.Volumes = nil
			vols, err := parseFloats(markerValue(line, markerVolumes))
			if err != nil {
				h.warn(markerVolumes, i, err)
			} else {
				h.Volumes = vols
			}
		}
		if strings.Contains(line, markerDamageDefinition) {
			h.Damage = splitList(markerValue(line, markerDamageDefinition))
		}
	}
	if !sawEnd {
		h.Warnings = append(h.Warnings, "no EndOfHeader marker; treating every line as body")
	}
	return h
}

func (h *Header) warn(marker string, line int, err error) {
	h.Warnings = append(h.Warnings, fmt.Sprintf("header line %d: %s: %v", line+1, marker, err))
}

// Body returns the lines after the header.
func (h *Header) Body() []string {
	if h.DataStart >= len(h.Lines) {
		return nil
	}
	return h.Lines[h.DataStart:]
}

// Columns returns the canonical field names flagged present, in order.
func (h *Header) Columns() []string {
	var out []string
	for i, on := range h.Presence {
		if i >= len(CanonicalFields) {
			break
		}
		if on {
			out = append(out, CanonicalFields[i])
		}
	}
	return out
}

// DamageDefinition returns the flag and base-pair threshold, ok only when
// the list has at least three entries and both parse.
func (h *Header) DamageDefinition() (DamageDefinition, bool) {
	if len(h.Damage) < 3 {
		return DamageDefinition{}, false
	}
	flag, err := strconv.ParseFloat(h.Damage[1], 64)
	if err != nil {
		return DamageDefinition{}, false
	}
	thr, err := strconv.ParseFloat(h.Damage[2], 64)
	if err != nil {
		return DamageDefinition{}, false
	}
	return DamageDefinition{Flag: int(flag), Threshold: thr}, true
}

// markerValue returns the text after a marker label, without the separating
// comma and the trailing ";".
func markerValue(line, marker string) string {
	v := line[strings.Index(line, marker)+len(marker):]
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, ",")
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, ";")
	return strings.TrimSpace(v)
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFlags(v string) ([]bool, error) {
	items := splitList(v)
	if len(items) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	out := make([]bool, len(items))
	for i, it := range items {
		n, err := strconv.Atoi(it)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out[i] = n == 1
	}
	return out, nil
}

func parseFloats(v string) ([]float64, error) {
	items := splitList(v)
	if len(items) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	out := make([]float64, len(items))
	for i, it := range items {
		f, err := strconv.ParseFloat(it, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}
