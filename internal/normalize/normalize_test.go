package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

func TestFitSymmetricRange(t *testing.T) {
	s, err := Fit(10, []float64{-5, 0, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0, s.Transform(0), 1e-12)
	assert.InDelta(t, 10, s.Transform(5), 1e-12)
	assert.InDelta(t, -10, s.Transform(-5), 1e-12)
	assert.InDelta(t, 5, s.Inverse(10), 1e-12)
}

func TestFitUnionAndEdgeCases(t *testing.T) {
	s, err := Fit(1, []float64{0, math.NaN()}, []float64{4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.DataMin)
	assert.Equal(t, 4.0, s.DataMax)
	assert.True(t, math.IsNaN(s.Transform(math.NaN())))

	constant, err := FitRange(1, 1200, []float64{7, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, constant.Apply([]float64{7, 7}))

	_, err = Fit(1, nil, []float64{math.NaN()})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPositionsSharesAxisTransform(t *testing.T) {
	tb := table.New(2)
	require.NoError(t, tb.Add("xcenter", []float64{1, 2}))
	require.NoError(t, tb.Add("ycenter", []float64{0, 10}))
	require.NoError(t, tb.Add("zcenter", []float64{5, 5}))
	require.NoError(t, tb.Add("xmax", []float64{3, 4}))
	require.NoError(t, tb.Add("xmin", []float64{0, 0}))
	require.NoError(t, tb.Add("identifier", []float64{1, 2}))

	out, axes, err := Positions(tb, 10, 20)
	require.NoError(t, err)

	// x spans [0, 4] across center, max and min
	assert.InDeltaSlice(t, []float64{-5, 0}, out.MustColumn("xcenter"), 1e-12)
	assert.InDeltaSlice(t, []float64{5, 10}, out.MustColumn("xmax"), 1e-12)
	assert.InDeltaSlice(t, []float64{-10, -10}, out.MustColumn("xmin"), 1e-12)
	assert.InDeltaSlice(t, []float64{-10, 10}, out.MustColumn("ycenter"), 1e-12)
	assert.Equal(t, []float64{-10, -10}, out.MustColumn("zcenter"))
	assert.Equal(t, []float64{1, 2}, out.MustColumn("identifier"))
	assert.Equal(t, 4.0, axes[0].DataMax)

	assert.Equal(t, []float64{1, 2}, tb.MustColumn("xcenter"), "input untouched")
}

func TestPositionsNeedsCenters(t *testing.T) {
	tb := table.New(1)
	require.NoError(t, tb.Add("identifier", []float64{1}))
	_, _, err := Positions(tb, 10, 10)
	assert.ErrorIs(t, err, table.ErrColumnMissing)
}

func TestNucleusGeometry(t *testing.T) {
	id := func(lo, hi float64) Scaler { return Scaler{DataMin: lo, DataMax: hi, Lo: lo, Hi: hi} }
	axes := [3]Scaler{id(-5, 5), id(-5, 5), id(-5, 5)}

	n, ok := NucleusGeometry([]float64{1, 4, 3, 2, -4, -3, -2}, axes)
	require.True(t, ok)
	assert.Equal(t, 1, n.Shape)
	assert.Equal(t, [3]float64{-4, -3, -2}, n.Min)
	assert.Equal(t, [3]float64{4, 3, 2}, n.Max)
	assert.Equal(t, [3]float64{0, 0, 0}, n.Center())

	long := []float64{0, 5, 5, 5, -5, -5, -5, 2, 1, 1, 1, -1, -1, -1}
	n, ok = NucleusGeometry(long, axes)
	require.True(t, ok)
	assert.Equal(t, 2, n.Shape)
	assert.Equal(t, [3]float64{1, 1, 1}, n.Max)

	_, ok = NucleusGeometry([]float64{1, 2, 3}, axes)
	assert.False(t, ok)
}
