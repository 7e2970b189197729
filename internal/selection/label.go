package selection

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// LabelRule colors plots by one column. Labels rename values; values
// without a label keep their number.
type LabelRule struct {
	Column  string             `yaml:"-"`
	Include bool               `yaml:"include"`
	Labels  map[float64]string `yaml:"labels"`
}

// LabelConfig is the decoded label file in file order.
type LabelConfig struct {
	Rules []LabelRule
}

// LoadLabels reads a label file.
func LoadLabels(path string) (*LabelConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	c, err := ParseLabels(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseLabels decodes label YAML, keyed by column name.
func ParseLabels(data []byte) (*LabelConfig, error) {
	pairs, err := mappingPairs(data)
	if err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	c := &LabelConfig{}
	for _, p := range pairs {
		r := LabelRule{Column: p.key}
		if err := p.value.Decode(&r); err != nil {
			return nil, fmt.Errorf("parse labels %s: %w", p.key, err)
		}
		r.Column = p.key
		c.Rules = append(c.Rules, r)
	}
	return c, nil
}

// Labeling holds the display label of every row for each colored column.
type Labeling struct {
	Columns []string
	values  map[string][]string
	order   map[string][]string
}

// Apply resolves labels for the included columns present in t. Absent
// columns are skipped with a diagnostic.
func (c *LabelConfig) Apply(t *table.Table, log *zap.Logger) (*Labeling, []Diagnostic) {
	if log == nil {
		log = zap.NewNop()
	}
	lb := &Labeling{values: map[string][]string{}, order: map[string][]string{}}
	var diags []Diagnostic
	for _, r := range c.Rules {
		vals, ok := t.Column(r.Column)
		if !ok {
			d := Diagnostic{Column: r.Column, Message: "column not in table"}
			log.Warn("label entry skipped", zap.String("column", r.Column), zap.String("reason", d.Message))
			diags = append(diags, d)
			continue
		}
		if !r.Include {
			continue
		}
		labels := make([]string, len(vals))
		seen := map[string]bool{}
		var order []string
		for i, v := range vals {
			name, ok := r.Labels[v]
			if !ok {
				name = table.FormatValue(v)
			}
			labels[i] = name
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
		lb.Columns = append(lb.Columns, r.Column)
		lb.values[r.Column] = labels
		lb.order[r.Column] = order
	}
	return lb, diags
}

// Label returns the label of row i for column col.
func (l *Labeling) Label(col string, i int) string {
	return l.values[col][i]
}

// Categories returns the distinct labels of col in first-seen order. Colors
// are assigned by position in this list, so it is kept from the full table
// when rows are selected.
func (l *Labeling) Categories(col string) []string {
	return l.order[col]
}

// Select returns a labeling for the given rows of the labeled table.
func (l *Labeling) Select(rows []int) *Labeling {
	out := &Labeling{
		Columns: l.Columns,
		values:  make(map[string][]string, len(l.values)),
		order:   l.order,
	}
	for col, labels := range l.values {
		sel := make([]string, len(rows))
		for k, r := range rows {
			sel[k] = labels[r]
		}
		out.values[col] = sel
	}
	return out
}
