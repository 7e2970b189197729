package cmd

import (
	"fmt"

	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/sddviz-cli/internal/config"
	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/parser"
	"github.com/KaramelBytes/sddviz-cli/internal/plot"
	"github.com/KaramelBytes/sddviz-cli/internal/selection"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// scene is an input prepared for drawing: scaled into the drawing cube,
// then filtered and labeled.
type scene struct {
	loaded      *parser.Loaded
	table       *table.Table
	labels      *selection.Labeling
	renderer    *plot.Renderer
	diagnostics []string
}

func buildScene(path string, c *cfgpkg.Global, log *zap.Logger) (*scene, error) {
	l, err := parser.LoadFile(path, log)
	if err != nil {
		return nil, err
	}
	s := &scene{loaded: l, table: l.Table, diagnostics: append([]string{}, l.Diagnostics...)}

	// Fit axes on every event, before filtering.
	scaled, axes, err := normalize.Positions(s.table, c.Width, c.Height)
	if err != nil {
		return nil, err
	}
	s.table = scaled

	if c.FilterFile != "" {
		f, err := selection.LoadFilter(c.FilterFile)
		if err != nil {
			return nil, err
		}
		var diags []selection.Diagnostic
		s.table, diags = f.Apply(s.table, log)
		s.addDiagnostics(diags)
		if s.table.Len() == 0 {
			return nil, fmt.Errorf("filter %s removed every event", c.FilterFile)
		}
	}
	if c.LabelFile != "" {
		lc, err := selection.LoadLabels(c.LabelFile)
		if err != nil {
			return nil, err
		}
		var diags []selection.Diagnostic
		s.labels, diags = lc.Apply(s.table, log)
		s.addDiagnostics(diags)
	}

	s.renderer = &plot.Renderer{
		Width:  c.ImageWidth,
		Height: c.ImageHeight,
		Camera: plot.DefaultCamera,
		Extent: normalize.Scale(c.Width, c.Height),
		SizeBy: c.Size,
		Points: c.Points,
	}
	if n, ok := normalize.NucleusGeometry(l.Volumes, axes); ok {
		s.renderer.Nucleus = &n
	} else if l.Kind == parser.KindSDD {
		log.Warn("nucleus volumes unusable, drawing without outline", zap.Int("values", len(l.Volumes)))
	}
	return s, nil
}

func (s *scene) addDiagnostics(diags []selection.Diagnostic) {
	for _, d := range diags {
		s.diagnostics = append(s.diagnostics, d.String())
	}
}

func (s *scene) labeledColumns() []string {
	if s.labels == nil {
		return nil
	}
	return s.labels.Columns
}
