package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/animate"
	"github.com/KaramelBytes/sddviz-cli/internal/plot"
	"github.com/KaramelBytes/sddviz-cli/internal/run"
)

var (
	renderOutDir string
	renderDraw   drawFlags
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Draw the damage sites as one PNG per labeled column plus an unlabeled one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := renderDraw.apply(cmd, settings())
		if err := animate.PrepareOutDir(renderOutDir); err != nil {
			return err
		}
		s, err := buildScene(path, c, logger)
		if err != nil {
			return err
		}

		m := run.New("render", renderOutDir)
		id, err := m.AddInput(path, s.loaded)
		if err != nil {
			return err
		}
		m.Inputs[id].Diagnostics = s.diagnostics

		title := fmt.Sprintf("%s  damages %d", filepath.Base(path), s.table.Len())
		frames := append(append([]string{}, s.labeledColumns()...), animate.UnlabeledFolder)
		for _, col := range frames {
			f := plot.Frame{Table: s.table, Title: title}
			name := "damage.png"
			if col != animate.UnlabeledFolder {
				f.Labels, f.Column = s.labels, col
				name = fmt.Sprintf("damage_%s.png", col)
			}
			img, err := s.renderer.Draw(f)
			if err != nil {
				return err
			}
			out := filepath.Join(renderOutDir, name)
			if err := plot.SavePNG(img, out); err != nil {
				return err
			}
			m.AddOutput(out)
			logger.Debug("image written", zap.String("path", out))
		}
		if err := m.Save(); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), m.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "render", "empty directory for the images and run.json")
	renderDraw.register(renderCmd)
}
