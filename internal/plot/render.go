package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/selection"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Renderer draws frames of one normalized event table. Its fields are read
// only, so one Renderer may serve many goroutines.
type Renderer struct {
	Width, Height int
	Camera        Camera
	// Extent is the half-width of the coordinate cube, the normalize scale.
	Extent float64
	// Nucleus outlines the cell nucleus when set.
	Nucleus *normalize.Nucleus
	// SizeBy scales markers by totalDamages when the column exists.
	SizeBy bool
	// Points suppresses extent lines even when the table has them.
	Points bool
}

// Frame is one picture: a set of rows colored by Column (unlabeled when
// Column is empty).
type Frame struct {
	Table  *table.Table
	Labels *selection.Labeling
	Column string
	Title  string
}

const markerRadius = 1.5

// Draw renders f. The table must carry center coordinates.
func (r *Renderer) Draw(f Frame) (image.Image, error) {
	xs, okX := f.Table.Column(normalize.Axes[0].Center)
	ys, okY := f.Table.Column(normalize.Axes[1].Center)
	zs, okZ := f.Table.Column(normalize.Axes[2].Center)
	if !okX || !okY || !okZ {
		return nil, fmt.Errorf("draw: center coordinates: %w", table.ErrColumnMissing)
	}

	dc := gg.NewContext(r.Width, r.Height)
	dc.SetColor(colornames.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	vp := newViewport(r.Camera, r.Width, r.Height, r.Extent)

	if r.Nucleus != nil {
		drawNucleus(dc, vp, *r.Nucleus)
	}

	colorOf := func(int) color.Color { return Unlabeled }
	var categories []string
	var palette []color.Color
	if f.Column != "" && f.Labels != nil {
		categories = f.Labels.Categories(f.Column)
		palette = Palette(len(categories))
		index := make(map[string]int, len(categories))
		for i, c := range categories {
			index[c] = i
		}
		colorOf = func(row int) color.Color {
			return palette[index[f.Labels.Label(f.Column, row)]]
		}
	}

	totals, sized := f.Table.Column("totalDamages")
	sized = sized && r.SizeBy
	lines := !r.Points && hasExtents(f.Table)

	dc.SetLineWidth(1)
	for i := 0; i < f.Table.Len(); i++ {
		dc.SetColor(colorOf(i))
		if lines {
			x0, y0 := vp.pixel(f.Table.MustColumn("xmin")[i], f.Table.MustColumn("ymin")[i], f.Table.MustColumn("zmin")[i])
			x1, y1 := vp.pixel(f.Table.MustColumn("xmax")[i], f.Table.MustColumn("ymax")[i], f.Table.MustColumn("zmax")[i])
			dc.DrawLine(x0, y0, x1, y1)
			dc.Stroke()
		}
		rad := markerRadius
		if sized && !math.IsNaN(totals[i]) {
			rad = markerRadius * math.Max(1, math.Sqrt(totals[i]))
		}
		px, py := vp.pixel(xs[i], ys[i], zs[i])
		dc.DrawCircle(px, py, rad)
		dc.Fill()
	}

	if f.Title != "" {
		dc.SetColor(colornames.Black)
		dc.DrawString(f.Title, 8, 16)
	}
	drawLegend(dc, categories, palette, r.Width)
	return dc.Image(), nil
}

func hasExtents(t *table.Table) bool {
	for _, ax := range normalize.Axes {
		if !t.Has(ax.Max) || !t.Has(ax.Min) {
			return false
		}
	}
	return true
}

func drawLegend(dc *gg.Context, categories []string, palette []color.Color, width int) {
	const row = 14
	for i, name := range categories {
		y := float64(8 + i*row)
		x := float64(width) - 8 - 10 - 7*float64(len(name)) - 4
		dc.SetColor(palette[i])
		dc.DrawRectangle(x, y, 10, 10)
		dc.Fill()
		dc.SetColor(colornames.Black)
		dc.DrawString(name, x+14, y+10)
	}
}

// Nucleus shapes as recorded in the header volumes.
const (
	shapeBox       = 0
	shapeEllipsoid = 1
	shapeCylinder  = 2
)

func drawNucleus(dc *gg.Context, vp viewport, n normalize.Nucleus) {
	dc.SetColor(colornames.Gray)
	dc.SetLineWidth(0.75)
	c := n.Center()
	var half [3]float64
	for i := range half {
		half[i] = (n.Max[i] - n.Min[i]) / 2
	}

	switch n.Shape {
	case shapeEllipsoid:
		ring(dc, vp, func(a float64) [3]float64 {
			return [3]float64{c[0] + half[0]*math.Cos(a), c[1] + half[1]*math.Sin(a), c[2]}
		})
		ring(dc, vp, func(a float64) [3]float64 {
			return [3]float64{c[0] + half[0]*math.Cos(a), c[1], c[2] + half[2]*math.Sin(a)}
		})
		ring(dc, vp, func(a float64) [3]float64 {
			return [3]float64{c[0], c[1] + half[1]*math.Cos(a), c[2] + half[2]*math.Sin(a)}
		})
	case shapeCylinder:
		for _, z := range []float64{n.Min[2], n.Max[2]} {
			ring(dc, vp, func(a float64) [3]float64 {
				return [3]float64{c[0] + half[0]*math.Cos(a), c[1] + half[1]*math.Sin(a), z}
			})
		}
		for _, a := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
			x, y := c[0]+half[0]*math.Cos(a), c[1]+half[1]*math.Sin(a)
			segment(dc, vp, [3]float64{x, y, n.Min[2]}, [3]float64{x, y, n.Max[2]})
		}
	default:
		lo, hi := n.Min, n.Max
		corner := func(bits int) [3]float64 {
			var p [3]float64
			for i := 0; i < 3; i++ {
				p[i] = lo[i]
				if bits&(1<<i) != 0 {
					p[i] = hi[i]
				}
			}
			return p
		}
		for a := 0; a < 8; a++ {
			for i := 0; i < 3; i++ {
				if b := a | 1<<i; b != a {
					segment(dc, vp, corner(a), corner(b))
				}
			}
		}
	}
}

func ring(dc *gg.Context, vp viewport, at func(a float64) [3]float64) {
	const steps = 72
	for s := 0; s <= steps; s++ {
		p := at(2 * math.Pi * float64(s) / steps)
		x, y := vp.pixel(p[0], p[1], p[2])
		if s == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
}

func segment(dc *gg.Context, vp viewport, a, b [3]float64) {
	x0, y0 := vp.pixel(a[0], a[1], a[2])
	x1, y1 := vp.pixel(b[0], b[1], b[2])
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()
}
