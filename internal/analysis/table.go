package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Options controls analysis behavior for an event table.
type Options struct {
	// SampleRows determines how many example rows to include in the report (0 disables).
	SampleRows int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// MaxCategories is the most distinct integer values a column may have
	// and still be summarized as categorical.
	MaxCategories int
}

// DefaultOptions returns reasonable defaults for table analysis.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
		MaxCategories:    12,
	}
}

// Report is a markdown-friendly analysis of an event table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical value counts, most frequent first
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Analyze summarizes t. name labels the report, usually the source file.
func Analyze(name string, t *table.Table, opt Options) *Report {
	rep := &Report{Name: name, Rows: t.Len()}
	if opt.MaxCategories <= 0 {
		opt.MaxCategories = 12
	}

	for _, c := range t.Names() {
		all := t.MustColumn(c)
		rep.Cols = append(rep.Cols, summarize(c, all, finite(all), opt))
	}

	for i := 0; i < t.Len() && i < opt.SampleRows; i++ {
		row := t.Row(i)
		out := make([]string, len(row))
		for j, v := range row {
			out[j] = table.FormatValue(v)
		}
		rep.Samples = append(rep.Samples, out)
	}

	if len(opt.GroupBy) > 0 {
		rep.Groups, rep.Warnings = groupBy(t, opt.GroupBy, rep.Warnings)
	}
	if opt.Correlations {
		rep.Corr = correlations(t, rep.Cols)
	}
	return rep
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func summarize(name string, all, vals []float64, opt Options) ColumnSummary {
	cs := ColumnSummary{Name: name, NonNull: len(vals), Missing: len(all) - len(vals)}
	if len(vals) == 0 {
		cs.Kind = "empty"
		return cs
	}
	counts := map[float64]int{}
	integral := true
	for _, v := range vals {
		counts[v]++
		if v != math.Trunc(v) {
			integral = false
		}
	}
	cs.Unique = len(counts)
	cs.Min, cs.Max = floats.Min(vals), floats.Max(vals)
	cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		cs.Std = 0
	}

	if integral && cs.Unique <= opt.MaxCategories {
		cs.Kind = "categorical"
		for v, n := range counts {
			cs.TopValues = append(cs.TopValues, CategoryCount{Value: table.FormatValue(v), Count: n})
		}
		sort.Slice(cs.TopValues, func(i, j int) bool {
			if cs.TopValues[i].Count == cs.TopValues[j].Count {
				return cs.TopValues[i].Value < cs.TopValues[j].Value
			}
			return cs.TopValues[i].Count > cs.TopValues[j].Count
		})
		return cs
	}

	cs.Kind = "numeric"
	if opt.Outliers && opt.OutlierThreshold > 0 && len(vals) >= 3 {
		median, mad := medianMAD(vals)
		if mad > 0 {
			cs.OutlierThreshold = opt.OutlierThreshold
			for _, v := range vals {
				z := 0.6745 * (v - median) / mad
				if math.Abs(z) > opt.OutlierThreshold {
					cs.OutliersCount++
				}
				cs.OutliersMaxAbsZ = math.Max(cs.OutliersMaxAbsZ, math.Abs(z))
			}
		}
	}
	return cs
}

func groupBy(t *table.Table, keys []string, warnings []string) ([]GroupResult, []string) {
	var cols [][]float64
	var names []string
	for _, k := range keys {
		v, ok := t.Column(k)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("group-by column %q not in table", k))
			continue
		}
		cols = append(cols, v)
		names = append(names, k)
	}
	if len(cols) == 0 {
		return nil, warnings
	}

	rowsByKey := map[string][]int{}
	var order []string
	for i := 0; i < t.Len(); i++ {
		parts := make([]string, len(cols))
		for j, c := range cols {
			parts[j] = names[j] + "=" + table.FormatValue(c[i])
		}
		key := strings.Join(parts, ", ")
		if _, ok := rowsByKey[key]; !ok {
			order = append(order, key)
		}
		rowsByKey[key] = append(rowsByKey[key], i)
	}
	sort.Strings(order)

	out := make([]GroupResult, 0, len(order))
	for _, key := range order {
		rows := rowsByKey[key]
		sub := t.Select(rows)
		gr := GroupResult{Key: key, Size: len(rows), Metrics: map[string]NumSummary{}}
		for _, c := range sub.Names() {
			if contains(names, c) {
				continue
			}
			vals := finite(sub.MustColumn(c))
			if len(vals) == 0 {
				continue
			}
			gr.Metrics[c] = NumSummary{Count: len(vals), Min: floats.Min(vals), Max: floats.Max(vals), Mean: stat.Mean(vals, nil)}
		}
		out = append(out, gr)
	}
	return out, warnings
}

// correlations uses rows where both columns are finite.
func correlations(t *table.Table, cols []ColumnSummary) *CorrMatrix {
	var names []string
	for _, c := range cols {
		if c.Kind != "empty" && c.Unique > 1 {
			names = append(names, c.Name)
		}
	}
	if len(names) < 2 {
		return nil
	}
	m := &CorrMatrix{Columns: names, Values: make([][]float64, len(names))}
	for i := range names {
		m.Values[i] = make([]float64, len(names))
		m.Values[i][i] = 1
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := pairwise(t.MustColumn(names[i]), t.MustColumn(names[j]))
			r := math.NaN()
			if len(a) >= 2 {
				r = stat.Correlation(a, b, nil)
			}
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m
}

func pairwise(x, y []float64) ([]float64, []float64) {
	var a, b []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		a = append(a, x[i])
		b = append(b, y[i])
	}
	return a, b
}

// Markdown renders the report in the sectioned plain-text layout used by
// inspect.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			b.WriteString(" — counts: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			maxk := min(6, len(keys))
			for i := 0; i < maxk; i++ {
				m := g.Metrics[keys[i]]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", keys[i], m.Mean, m.Min, m.Max))
			}
		}
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if v := r.Corr.Values[i][j]; !math.IsNaN(v) {
					pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: v})
				}
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		for i := 0; i < min(10, len(pairs)); i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(c.Name)
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			b.WriteString(strings.Join(row, " | "))
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile interpolates between the two nearest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := math.Min(math.Max(q, 0), 1) * float64(len(sorted)-1)
	lo, hi := int(math.Floor(pos)), int(math.Ceil(pos))
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
