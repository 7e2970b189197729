// Package normalize rescales event coordinates and nucleus geometry into a
// symmetric drawing range.
package normalize

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrNoData is returned when a scaler is fitted on no finite values.
var ErrNoData = errors.New("no finite values to fit")

// Scaler is a fitted min-max transform from [DataMin, DataMax] onto [Lo, Hi].
type Scaler struct {
	DataMin, DataMax float64
	Lo, Hi           float64
}

// FitRange fits one transform onto [lo, hi] across the union of series.
// NaN entries are ignored.
func FitRange(lo, hi float64, series ...[]float64) (Scaler, error) {
	var vals []float64
	for _, s := range series {
		for _, v := range s {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return Scaler{}, ErrNoData
	}
	return Scaler{DataMin: floats.Min(vals), DataMax: floats.Max(vals), Lo: lo, Hi: hi}, nil
}

// Fit fits a transform onto [-scale, scale].
func Fit(scale float64, series ...[]float64) (Scaler, error) {
	return FitRange(-scale, scale, series...)
}

// Transform maps one value. A constant fit maps everything to Lo.
func (s Scaler) Transform(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return (x-s.DataMin)/s.span()*(s.Hi-s.Lo) + s.Lo
}

// Inverse maps a value in [Lo, Hi] back to the data range.
func (s Scaler) Inverse(y float64) float64 {
	if math.IsNaN(y) || s.Hi == s.Lo {
		return y
	}
	return (y-s.Lo)/(s.Hi-s.Lo)*s.span() + s.DataMin
}

// Apply returns a transformed copy of series.
func (s Scaler) Apply(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = s.Transform(v)
	}
	return out
}

func (s Scaler) span() float64 {
	if d := s.DataMax - s.DataMin; d != 0 {
		return d
	}
	return 1
}
