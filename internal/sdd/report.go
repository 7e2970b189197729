package sdd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Report owns one SDD file: its header, its raw body and, once Parse has
// run, the assembled event table.
type Report struct {
	Path string

	log    *zap.Logger
	header *Header
	raw    *RawTable

	parsed      *table.Table
	timeScaler  *normalize.Scaler
	diagnostics []string
}

// Option configures a Report.
type Option func(*Report)

// WithLogger routes diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(r *Report) {
		if log != nil {
			r.log = log
		}
	}
}

// Open reads and loads the report at path. The body is split and named but
// not decoded; call Parse for the event table.
func Open(path string, opts ...Option) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()
	r, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Path = path
	return r, nil
}

// Read loads a report from r.
func Read(rd io.Reader, opts ...Option) (*Report, error) {
	r := &Report{log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}

	var lines []string
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	r.header = ScanHeader(lines)
	for _, w := range r.header.Warnings {
		r.log.Warn("header", zap.String("detail", w))
		r.diagnostics = append(r.diagnostics, w)
	}
	raw, err := LoadBody(r.header)
	if err != nil {
		return nil, err
	}
	r.raw = raw
	r.log.Debug("report loaded",
		zap.Int("rows", raw.Len()),
		zap.Strings("fields", raw.Names()),
		zap.Int("volumes", len(r.header.Volumes)))
	return r, nil
}

// Header returns the scanned header.
func (r *Report) Header() *Header { return r.header }

// Raw returns the named body columns.
func (r *Report) Raw() *RawTable { return r.raw }

// Volumes returns the nucleus geometry list, nil when absent.
func (r *Report) Volumes() []float64 { return r.header.Volumes }

// DamageDefinition returns the double-strand break parameters.
func (r *Report) DamageDefinition() (DamageDefinition, bool) {
	return r.header.DamageDefinition()
}

// Parse decodes every column family, assembles the event table and keeps it.
// Families that fail to decode are left out and noted in Diagnostics; only
// a failure to join the survivors is returned.
func (r *Report) Parse() (*table.Table, error) {
	x := NewExtractor(r.raw, r.header)

	pos, posErr := x.Position()
	chrom, chromErr := x.Chromosome()
	breaks, breaksErr := x.BreakSpec()
	damage, damageErr := x.DamageInfo(breaks)
	cause, causeErr := x.Cause(breaks)
	times, sc, timesErr := x.LesionTime()

	t, diags, err := Assemble(r.log, r.raw.Len(),
		Part{Name: FieldXYZ, Table: pos, Err: posErr},
		Part{Name: FieldChromosomeID, Table: chrom, Err: chromErr},
		Part{Name: FieldDamage, Table: damage, Err: damageErr},
		Part{Name: FieldCause, Table: cause, Err: causeErr},
		Part{Name: FieldBreakSpec, Table: breaks, Err: breaksErr},
		Part{Name: FieldLesionTime, Table: times, Err: timesErr},
	)
	r.diagnostics = append(r.diagnostics, diags...)
	if err != nil {
		return nil, err
	}
	if timesErr == nil {
		r.timeScaler = &sc
	}
	r.parsed = t
	r.log.Info("report parsed", zap.Int("rows", t.Len()), zap.Strings("columns", t.Names()))
	return t, nil
}

// Table returns the parsed table, or nil before Parse.
func (r *Report) Table() *table.Table { return r.parsed }

// TimeScaler returns the transform that mapped lesion times onto frames.
func (r *Report) TimeScaler() (normalize.Scaler, bool) {
	if r.timeScaler == nil {
		return normalize.Scaler{}, false
	}
	return *r.timeScaler, true
}

// Diagnostics lists header warnings and absent column families.
func (r *Report) Diagnostics() []string {
	out := make([]string, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Save persists the parsed table, parsing first if needed.
func (r *Report) Save(path string, format table.Format) error {
	t := r.parsed
	if t == nil {
		var err error
		if t, err = r.Parse(); err != nil {
			return err
		}
	}
	return t.WriteFile(path, format)
}

// Load is the one-call consumer entry point: it opens and parses path and
// returns the event table with the nucleus volumes and damage definition.
func Load(path string, opts ...Option) (*table.Table, []float64, *DamageDefinition, error) {
	r, err := Open(path, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err := r.Parse()
	if err != nil {
		return nil, nil, nil, err
	}
	var def *DamageDefinition
	if d, ok := r.DamageDefinition(); ok {
		def = &d
	}
	return t, r.Volumes(), def, nil
}
