package normalize

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Axis names the columns that share one spatial transform.
type Axis struct {
	Name   string
	Center string
	Max    string
	Min    string
}

// Axes lists x, y and z in table column terms.
var Axes = [3]Axis{
	{Name: "x", Center: "xcenter", Max: "xmax", Min: "xmin"},
	{Name: "y", Center: "ycenter", Max: "ymax", Min: "ymin"},
	{Name: "z", Center: "zcenter", Max: "zmax", Min: "zmin"},
}

// Scale returns the symmetric drawing range for a frame.
func Scale(width, height float64) float64 {
	return math.Min(width, height)
}

// Positions returns a copy of t with every center, max and min column scaled
// into [-scale, scale], scale being min(width, height). Each axis gets one
// transform fitted over all of its columns so extents stay consistent with
// centers. The fitted x, y and z scalers are returned for reuse on the
// nucleus geometry.
func Positions(t *table.Table, width, height float64) (*table.Table, [3]Scaler, error) {
	var scalers [3]Scaler
	scale := Scale(width, height)
	out := t
	for i, ax := range Axes {
		var series [][]float64
		var names []string
		for _, name := range []string{ax.Center, ax.Max, ax.Min} {
			if vals, ok := t.Column(name); ok {
				series = append(series, vals)
				names = append(names, name)
			}
		}
		if len(series) == 0 {
			return nil, scalers, fmt.Errorf("normalize %s axis: %s: %w", ax.Name, ax.Center, table.ErrColumnMissing)
		}
		s, err := Fit(scale, series...)
		if err != nil {
			return nil, scalers, fmt.Errorf("normalize %s axis: %w", ax.Name, err)
		}
		scalers[i] = s
		for j, name := range names {
			next, err := out.WithColumn(name, s.Apply(series[j]))
			if err != nil {
				return nil, scalers, err
			}
			out = next
		}
	}
	return out, scalers, nil
}

// Nucleus is the cell nucleus outline in drawing coordinates.
type Nucleus struct {
	Shape int
	Min   [3]float64
	Max   [3]float64
}

// Center returns the midpoint of the bounding corners.
func (n Nucleus) Center() [3]float64 {
	var c [3]float64
	for i := range c {
		c[i] = (n.Min[i] + n.Max[i]) / 2
	}
	return c
}

// NucleusGeometry maps a header volumes list through the per-axis scalers.
// The 7-value form is shape followed by two corners; the longer form carries a
// leading world block and puts the nucleus shape at index 7. ok is false
// when volumes has neither layout.
func NucleusGeometry(volumes []float64, axes [3]Scaler) (Nucleus, bool) {
	var base int
	switch {
	case len(volumes) >= 14:
		base = 7
	case len(volumes) == 7:
		base = 0
	default:
		return Nucleus{}, false
	}
	n := Nucleus{Shape: int(volumes[base])}
	for i := 0; i < 3; i++ {
		a := axes[i].Transform(volumes[base+1+i])
		b := axes[i].Transform(volumes[base+4+i])
		n.Min[i], n.Max[i] = math.Min(a, b), math.Max(a, b)
	}
	return n, true
}
