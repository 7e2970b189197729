package sdd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Part is the outcome of one extraction pass.
type Part struct {
	Name  string
	Table *table.Table
	Err   error
}

// Assemble joins the parts that extracted cleanly, in the order given, and
// adds totalDamages when numBases and singleNumber are both present. A part
// with an error is treated as an absent column family: it is logged and
// reported in the returned diagnostics. rows sets the row count of the
// result when every part is absent.
func Assemble(log *zap.Logger, rows int, parts ...Part) (*table.Table, []string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var diags []string
	out := table.New(rows)
	for _, p := range parts {
		if p.Err != nil {
			log.Warn("column family absent", zap.String("family", p.Name), zap.Error(p.Err))
			diags = append(diags, fmt.Sprintf("%s: %v", p.Name, p.Err))
			continue
		}
		joined, err := out.Join(p.Table)
		if err != nil {
			return nil, diags, fmt.Errorf("assemble %s: %w", p.Name, err)
		}
		out = joined
	}

	nb, okB := out.Column(ColNumBases)
	sn, okS := out.Column(ColSingleNumber)
	if okB && okS {
		total := make([]float64, out.Len())
		for i := range total {
			total[i] = nb[i] + sn[i]
		}
		withTotal, err := out.WithColumn(ColTotalDamages, total)
		if err != nil {
			return nil, diags, fmt.Errorf("assemble totals: %w", err)
		}
		out = withTotal
	}
	return out, diags, nil
}
