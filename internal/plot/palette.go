package plot

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Unlabeled is the marker color when no column drives coloring.
var Unlabeled color.Color = colornames.Black

// Palette returns n distinct named colors in a fixed order, skipping names
// too pale to read on a white canvas and the unlabeled black. Colors repeat
// past the palette size.
func Palette(n int) []color.Color {
	var usable []color.Color
	for _, name := range colornames.Names {
		c := colornames.Map[name]
		if luma(c) > 0.8 || c == colornames.Black {
			continue
		}
		usable = append(usable, c)
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = usable[i%len(usable)]
	}
	return out
}

func luma(c color.RGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}
