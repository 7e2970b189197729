package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
)

// SavePNG encodes img at path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame %s: %w", path, err)
	}
	return f.Close()
}

// Cumulative returns, for frames 1..frames, how many times are at or below
// the frame index. times must already be on the frame scale.
func Cumulative(times []float64, frames int) (x, y []float64) {
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	x = make([]float64, frames)
	y = make([]float64, frames)
	n := 0
	for i := 1; i <= frames; i++ {
		for n < len(sorted) && sorted[n] <= float64(i) {
			n++
		}
		x[i-1] = float64(i)
		y[i-1] = float64(n)
	}
	return x, y
}

// Timeline writes a PNG line chart of the cumulative damage count per frame.
func Timeline(w io.Writer, times []float64, frames int) error {
	if frames < 2 {
		return fmt.Errorf("timeline: need at least 2 frames, got %d", frames)
	}
	x, y := Cumulative(times, frames)
	graph := chart.Chart{
		Width:  640,
		Height: 320,
		XAxis: chart.XAxis{
			Name: "frame",
		},
		YAxis: chart.YAxis{
			Name: "damages",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "cumulative damages",
				XValues: x,
				YValues: y,
			},
		},
	}

	buf := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("render timeline: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
