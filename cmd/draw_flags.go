package cmd

import (
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sddviz-cli/internal/config"
)

// drawFlags are the scene settings shared by render and animate. Each one
// overrides the config value only when given.
type drawFlags struct {
	width, height     float64
	imgWidth          int
	imgHeight         int
	size, points      bool
	filterFile, label string
}

func (d *drawFlags) register(c *cobra.Command) {
	c.Flags().Float64Var(&d.width, "width", 10, "drawing frame width (overrides config)")
	c.Flags().Float64Var(&d.height, "height", 10, "drawing frame height (overrides config)")
	c.Flags().IntVar(&d.imgWidth, "image-width", 640, "image width in pixels (overrides config)")
	c.Flags().IntVar(&d.imgHeight, "image-height", 480, "image height in pixels (overrides config)")
	c.Flags().BoolVar(&d.size, "size", false, "scale markers by totalDamages")
	c.Flags().BoolVar(&d.points, "points", false, "draw centers only, without extent lines")
	c.Flags().StringVar(&d.filterFile, "filter", "", "YAML filter file (overrides config)")
	c.Flags().StringVar(&d.label, "labels", "", "YAML label file (overrides config)")
}

// apply returns a copy of base with the changed flags folded in.
func (d *drawFlags) apply(c *cobra.Command, base *cfgpkg.Global) *cfgpkg.Global {
	out := *base
	f := c.Flags()
	if f.Changed("width") && d.width > 0 {
		out.Width = d.width
	}
	if f.Changed("height") && d.height > 0 {
		out.Height = d.height
	}
	if f.Changed("image-width") && d.imgWidth > 0 {
		out.ImageWidth = d.imgWidth
	}
	if f.Changed("image-height") && d.imgHeight > 0 {
		out.ImageHeight = d.imgHeight
	}
	if f.Changed("size") {
		out.Size = d.size
	}
	if f.Changed("points") {
		out.Points = d.points
	}
	if f.Changed("filter") {
		out.FilterFile = d.filterFile
	}
	if f.Changed("labels") {
		out.LabelFile = d.label
	}
	return &out
}
