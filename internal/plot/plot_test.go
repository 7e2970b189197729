package plot

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/selection"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

func scene(t *testing.T) *table.Table {
	t.Helper()
	tb := table.New(3)
	for _, c := range []struct {
		name string
		vals []float64
	}{
		{"xcenter", []float64{-5, 0, 5}},
		{"ycenter", []float64{0, 5, -5}},
		{"zcenter", []float64{5, -5, 0}},
		{"xmax", []float64{-4, 1, 6}},
		{"ymax", []float64{1, 6, -4}},
		{"zmax", []float64{6, -4, 1}},
		{"xmin", []float64{-6, -1, 4}},
		{"ymin", []float64{-1, 4, -6}},
		{"zmin", []float64{4, -6, -1}},
		{"identifier", []float64{1, 2, 1}},
		{"totalDamages", []float64{1, 4, 9}},
	} {
		require.NoError(t, tb.Add(c.name, c.vals))
	}
	return tb
}

func TestDrawLabeledFrame(t *testing.T) {
	tb := scene(t)
	cfg, err := selection.ParseLabels([]byte("identifier: {include: true, labels: {1: direct}}"))
	require.NoError(t, err)
	lb, _ := cfg.Apply(tb, nil)

	r := &Renderer{
		Width: 200, Height: 160, Camera: DefaultCamera, Extent: 10,
		Nucleus: &normalize.Nucleus{Shape: shapeEllipsoid, Min: [3]float64{-8, -8, -8}, Max: [3]float64{8, 8, 8}},
		SizeBy:  true,
	}
	img, err := r.Draw(Frame{Table: tb, Labels: lb, Column: "identifier", Title: "frame 1"})
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, SavePNG(img, path))
}

func TestDrawNeedsCenters(t *testing.T) {
	tb := table.New(1)
	require.NoError(t, tb.Add("xcenter", []float64{0}))
	r := &Renderer{Width: 10, Height: 10, Extent: 1}
	_, err := r.Draw(Frame{Table: tb})
	assert.ErrorIs(t, err, table.ErrColumnMissing)
}

func TestProjectionCentersOrigin(t *testing.T) {
	vp := newViewport(DefaultCamera, 100, 80, 10)
	x, y := vp.pixel(0, 0, 0)
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 40, y, 1e-9)

	// the corners of the cube stay on the canvas
	for _, p := range [][3]float64{{10, 10, 10}, {-10, -10, -10}, {10, -10, 10}} {
		x, y := vp.pixel(p[0], p[1], p[2])
		assert.True(t, x >= 0 && x <= 100 && y >= 0 && y <= 80, "%v -> %v,%v", p, x, y)
	}
}

func TestPalette(t *testing.T) {
	p := Palette(300)
	require.Len(t, p, 300)
	assert.NotEqual(t, p[0], p[1])
	for _, c := range p {
		assert.NotEqual(t, colornames.Black, c)
	}
}

func TestCumulativeAndTimeline(t *testing.T) {
	x, y := Cumulative([]float64{1, 3.5, 3, 10}, 4)
	assert.Equal(t, []float64{1, 2, 3, 4}, x)
	assert.Equal(t, []float64{1, 1, 2, 3}, y)

	var buf bytes.Buffer
	require.NoError(t, Timeline(&buf, []float64{1, 2, 2, 5}, 10))
	_, err := png.Decode(&buf)
	require.NoError(t, err)

	assert.Error(t, Timeline(&buf, nil, 1))
}
