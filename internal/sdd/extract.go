package sdd

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Extractor turns raw body columns into typed sub-tables. Each pass is
// independent; an error means that column family is unavailable.
type Extractor struct {
	raw    *RawTable
	damage DamageDefinition
	hasDef bool
}

// NewExtractor binds the body to the header's damage definition.
func NewExtractor(raw *RawTable, h *Header) *Extractor {
	def, ok := h.DamageDefinition()
	return &Extractor{raw: raw, damage: def, hasDef: ok}
}

// decodeRows splits every cell of field with kind, stopping at the first
// cell that fails.
func (x *Extractor) decodeRows(field string, kind Kind) ([][][]float64, error) {
	cells, err := x.raw.Column(field)
	if err != nil {
		return nil, err
	}
	out := make([][][]float64, len(cells))
	for i, c := range cells {
		g, err := Split(c, kind)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Field, de.Row = field, i+1
			}
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

// flatRows decodes field as one flat list per row. Every row must have the
// same length, at least one and at most len(headers).
func (x *Extractor) flatRows(field string, kind Kind, maxWidth int) ([][]float64, int, error) {
	rows, err := x.decodeRows(field, kind)
	if err != nil {
		return nil, 0, err
	}
	flat := make([][]float64, len(rows))
	width := -1
	for i, g := range rows {
		flat[i] = Flatten(g)
		switch {
		case width < 0:
			width = len(flat[i])
			if width == 0 || width > maxWidth {
				return nil, 0, &DecodeError{Field: field, Row: i + 1, Err: fmt.Errorf("%d values, want 1 to %d", width, maxWidth)}
			}
		case len(flat[i]) != width:
			return nil, 0, &DecodeError{Field: field, Row: i + 1, Err: fmt.Errorf("%d values, first row has %d", len(flat[i]), width)}
		}
	}
	return flat, width, nil
}

func columnsOf(rows [][]float64, headers []string) (*table.Table, error) {
	t := table.New(len(rows))
	for j, name := range headers {
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = r[j]
		}
		if err := t.Add(name, col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Position decodes xyz into center coordinates and, when the field carries
// "/"-separated extents, max and min corners.
func (x *Extractor) Position() (*table.Table, error) {
	rows, n, err := x.flatRows(FieldXYZ, KindFloat, len(dimensionHeaders))
	if err != nil {
		return nil, err
	}
	return columnsOf(rows, dimensionHeaders[:n])
}

// Chromosome decodes chromosomeid into structure, chromosome, chromatid and
// arm numbers, or a prefix of them.
func (x *Extractor) Chromosome() (*table.Table, error) {
	rows, n, err := x.flatRows(FieldChromosomeID, KindInt, len(chromosomeHeaders))
	if err != nil {
		return nil, err
	}
	return columnsOf(rows, chromosomeHeaders[:n])
}

// breakTriple is one (strand, base, identifier) entry of a break specification.
type breakTriple struct {
	strand, base, id int
}

// breakSummary is the per-event reduction of its triples.
type breakSummary struct {
	numBases, singleNumber       int
	identifier                   int
	direct, indirect, directBoth int
	// minGap is the smallest |base4 - base1| over strand-1/strand-4 breaks,
	// NaN when no such pair exists.
	minGap float64
}

func summarizeBreaks(triples []breakTriple) breakSummary {
	s := breakSummary{minGap: math.NaN()}
	ids := map[int]bool{}
	maxID := causeNone
	var strand1, strand4 []int
	for _, t := range triples {
		ids[t.id] = true
		if t.id > maxID {
			maxID = t.id
		}
		switch t.id {
		case causeDirect:
			s.direct++
		case causeIndirect:
			s.indirect++
		case causeBoth:
			s.directBoth++
		}
		if t.id == causeNone {
			continue
		}
		switch t.strand {
		case 1, 4:
			s.singleNumber++
		case 2, 3:
			s.numBases++
		}
		switch t.strand {
		case 1:
			strand1 = append(strand1, t.base)
		case 4:
			strand4 = append(strand4, t.base)
		}
	}

	switch {
	case len(ids) == 1:
		s.identifier = maxID
	case ids[causeDirect] && ids[causeIndirect]:
		s.identifier = causeBoth
	default:
		s.identifier = maxID
	}

	for _, a := range strand1 {
		for _, b := range strand4 {
			d := math.Abs(float64(b - a))
			if math.IsNaN(s.minGap) || d < s.minGap {
				s.minGap = d
			}
		}
	}
	return s
}

func parseTriples(groups [][]float64) ([]breakTriple, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no break entries")
	}
	out := make([]breakTriple, 0, len(groups))
	for _, g := range groups {
		if len(g) != 3 {
			return nil, fmt.Errorf("break entry has %d values, want strand,base,identifier", len(g))
		}
		out = append(out, breakTriple{strand: int(g[0]), base: int(g[1]), id: int(g[2])})
	}
	return out, nil
}

// BreakSpec reduces each event's break specification to counts of strand
// breaks and base damages, the event cause and, when the damage definition
// asks for distance-based classification (flag 0), double-strand break
// presence. dsbPresent is left out when any event has no strand-1/strand-4
// pair to measure.
func (x *Extractor) BreakSpec() (*table.Table, error) {
	rows, err := x.decodeRows(FieldBreakSpec, KindInt)
	if err != nil {
		return nil, err
	}
	n := len(rows)
	cols := make(map[string][]float64, len(breakSpecHeaders))
	for _, h := range breakSpecHeaders {
		cols[h] = make([]float64, n)
	}
	wantDSB := x.hasDef && x.damage.Flag == 0
	for i, g := range rows {
		triples, err := parseTriples(g)
		if err != nil {
			return nil, &DecodeError{Field: FieldBreakSpec, Row: i + 1, Err: err}
		}
		s := summarizeBreaks(triples)
		cols[ColNumBases][i] = float64(s.numBases)
		cols[ColSingleNumber][i] = float64(s.singleNumber)
		cols[ColIdentifier][i] = float64(s.identifier)
		cols[ColDirect][i] = float64(s.direct)
		cols[ColIndirect][i] = float64(s.indirect)
		cols[ColDirectNIndirect][i] = float64(s.directBoth)
		switch {
		case !wantDSB || math.IsNaN(s.minGap):
			wantDSB = false
		case s.minGap <= x.damage.Threshold:
			cols[ColDSBPresent][i] = 1
		}
	}

	t := table.New(n)
	for _, h := range breakSpecHeaders {
		if h == ColDSBPresent && !wantDSB {
			continue
		}
		if err := t.Add(h, cols[h]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DamageInfo decodes the summary damage field. Without a break
// specification it supplies numBases, singleNumber and dsbPresent (or a
// prefix); with one it only fills in dsbPresent when the break specification
// could not.
func (x *Extractor) DamageInfo(breaks *table.Table) (*table.Table, error) {
	rows, n, err := x.flatRows(FieldDamage, KindInt, len(damageHeaders))
	if err != nil {
		return nil, err
	}
	all, err := columnsOf(rows, damageHeaders[:n])
	if err != nil {
		return nil, err
	}
	if breaks.Empty() {
		return all, nil
	}
	if breaks.Has(ColDSBPresent) || !all.Has(ColDSBPresent) {
		return table.New(all.Len()), nil
	}
	return all.Drop(ColNumBases, ColSingleNumber), nil
}

// Cause decodes the cause field into identifier, direct and indirect. Cause
// identifiers are stored zero-based and are shifted to match break
// specification identifiers; columns the break specification already
// provides are dropped.
func (x *Extractor) Cause(breaks *table.Table) (*table.Table, error) {
	rows, n, err := x.flatRows(FieldCause, KindInt, len(causeHeaders))
	if err != nil {
		return nil, err
	}
	t, err := columnsOf(rows, causeHeaders[:n])
	if err != nil {
		return nil, err
	}
	if breaks.Has(ColIdentifier) {
		t = t.Drop(ColIdentifier)
	} else {
		ids := t.MustColumn(ColIdentifier)
		shifted := make([]float64, len(ids))
		for i, v := range ids {
			shifted[i] = v + 1
		}
		if t, err = t.WithColumn(ColIdentifier, shifted); err != nil {
			return nil, err
		}
	}
	var dup []string
	for _, name := range []string{ColDirect, ColIndirect} {
		if breaks.Has(name) {
			dup = append(dup, name)
		}
	}
	return t.Drop(dup...), nil
}

// LesionTime parses one time per event and rescales all of them onto the
// frame range [LesionTimeMin, LesionTimeMax]. The fitted scaler is returned
// so other timestamps can be mapped into the same frames.
func (x *Extractor) LesionTime() (*table.Table, normalize.Scaler, error) {
	cells, err := x.raw.Column(FieldLesionTime)
	if err != nil {
		return nil, normalize.Scaler{}, err
	}
	times := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, normalize.Scaler{}, &DecodeError{Field: FieldLesionTime, Row: i + 1, Value: c, Err: err}
		}
		times[i] = v
	}
	sc, err := normalize.FitRange(LesionTimeMin, LesionTimeMax, times)
	if err != nil {
		return nil, normalize.Scaler{}, &DecodeError{Field: FieldLesionTime, Err: err}
	}
	t := table.New(len(times))
	if err := t.Add(ColLesionTimes, sc.Apply(times)); err != nil {
		return nil, normalize.Scaler{}, err
	}
	return t, sc, nil
}
