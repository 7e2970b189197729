// Package selection narrows and annotates a parsed event table from YAML
// filter and label files.
package selection

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Diagnostic reports a configuration entry that was skipped.
type Diagnostic struct {
	Column  string
	Message string
}

func (d Diagnostic) String() string { return d.Column + ": " + d.Message }

// Columns filtered by listing the values to keep.
var categoricalColumns = []string{"structure", "identifier", "dsbPresent"}

// Columns filtered by less/greater/equal bounds.
var rangeColumns = []string{"direct", "indirect", "numBases", "singleNumber", "totalDamages"}

const listColumn = "chromosomeNumber"

// Include toggles one categorical value.
type Include struct {
	Include bool `yaml:"include"`
}

// Range keeps values below Less, above Greater or equal to Equal. Nil
// bounds are unset.
type Range struct {
	Less    *float64 `yaml:"less"`
	Greater *float64 `yaml:"greater"`
	Equal   *float64 `yaml:"equal"`
}

// Rule is one filter entry, applied to Column.
type Rule struct {
	Column string
	// Values lists the values to keep for categorical and list rules.
	Values []float64
	// Range is set for bound rules.
	Range *Range
	// Unknown marks a column this filter has no criteria for.
	Unknown bool
}

// Filter is an ordered set of rules. Rules run in file order and each one
// narrows the result of the previous.
type Filter struct {
	Rules []Rule
}

// LoadFilter reads a filter file.
func LoadFilter(path string) (*Filter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter: %w", err)
	}
	f, err := ParseFilter(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFilter decodes filter YAML, keyed by column name.
func ParseFilter(data []byte) (*Filter, error) {
	pairs, err := mappingPairs(data)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	f := &Filter{}
	for _, p := range pairs {
		r := Rule{Column: p.key}
		switch {
		case slices.Contains(categoricalColumns, p.key):
			var m map[float64]Include
			if err := p.value.Decode(&m); err != nil {
				return nil, fmt.Errorf("parse filter %s: %w", p.key, err)
			}
			for v, inc := range m {
				if inc.Include {
					r.Values = append(r.Values, v)
				}
			}
			slices.Sort(r.Values)
		case slices.Contains(rangeColumns, p.key):
			r.Range = &Range{}
			if err := p.value.Decode(r.Range); err != nil {
				return nil, fmt.Errorf("parse filter %s: %w", p.key, err)
			}
		case p.key == listColumn:
			if err := p.value.Decode(&r.Values); err != nil {
				return nil, fmt.Errorf("parse filter %s: %w", p.key, err)
			}
		default:
			r.Unknown = true
		}
		f.Rules = append(f.Rules, r)
	}
	return f, nil
}

// Apply returns the rows of t that pass every rule. Rules naming absent
// columns, unknown criteria and contradictory bounds are skipped with a
// diagnostic. t is not modified.
func (f *Filter) Apply(t *table.Table, log *zap.Logger) (*table.Table, []Diagnostic) {
	if log == nil {
		log = zap.NewNop()
	}
	var diags []Diagnostic
	skip := func(col, format string, args ...any) {
		d := Diagnostic{Column: col, Message: fmt.Sprintf(format, args...)}
		log.Warn("filter entry skipped", zap.String("column", col), zap.String("reason", d.Message))
		diags = append(diags, d)
	}

	out := t
	for _, r := range f.Rules {
		vals, ok := out.Column(r.Column)
		if !ok {
			skip(r.Column, "column not in table")
			continue
		}
		if r.Unknown {
			skip(r.Column, "no filter criteria for this column")
			continue
		}
		keep := r.Values
		if r.Range != nil {
			var msg string
			keep, msg = r.Range.matches(vals)
			if msg != "" {
				skip(r.Column, "%s", msg)
				continue
			}
		}
		if len(keep) == 0 {
			continue
		}
		out = out.Where(func(i int) bool { return slices.Contains(keep, vals[i]) })
	}
	return out, diags
}

// matches returns the column values selected by the bounds, or a reason the
// bounds cannot apply to vals.
func (r *Range) matches(vals []float64) ([]float64, string) {
	switch {
	case r.Less == nil && r.Greater == nil && r.Equal == nil:
		return nil, ""
	case r.Less != nil && r.Greater != nil && *r.Less >= *r.Greater:
		return nil, fmt.Sprintf("less (%g) must be below greater (%g)", *r.Less, *r.Greater)
	case r.Equal != nil && !slices.Contains(vals, *r.Equal):
		return nil, fmt.Sprintf("no value equals %g", *r.Equal)
	case r.Greater != nil && !slices.ContainsFunc(vals, func(v float64) bool { return v > *r.Greater }):
		return nil, fmt.Sprintf("no value is greater than %g", *r.Greater)
	case r.Less != nil && !slices.ContainsFunc(vals, func(v float64) bool { return v < *r.Less }):
		return nil, fmt.Sprintf("no value is less than %g", *r.Less)
	}
	var out []float64
	for _, v := range vals {
		if (r.Greater != nil && v > *r.Greater) ||
			(r.Less != nil && v < *r.Less) ||
			(r.Equal != nil && v == *r.Equal) {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out, ""
}

type pair struct {
	key   string
	value *yaml.Node
}

// mappingPairs returns the top-level keys of a YAML mapping in file order.
func mappingPairs(data []byte) ([]pair, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of column names", root.Line)
	}
	out := make([]pair, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		out = append(out, pair{key: root.Content[i].Value, value: root.Content[i+1]})
	}
	return out, nil
}
