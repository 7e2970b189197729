package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/KaramelBytes/sddviz-cli/internal/animate"
	"github.com/KaramelBytes/sddviz-cli/internal/run"
)

var (
	animOutDir  string
	animFrames  int
	animStep    int
	animWorkers int
	animFPS     float64
	animNoVideo bool
	animDraw    drawFlags
)

var animateCmd = &cobra.Command{
	Use:   "animate <file>",
	Short: "Render damage accumulating over lesion time and stitch the frames into videos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := animDraw.apply(cmd, settings())
		f := cmd.Flags()
		if f.Changed("frames") && animFrames > 0 {
			c.Frames = animFrames
		}
		if f.Changed("step") && animStep > 0 {
			c.FrameStep = animStep
		}
		if f.Changed("workers") && animWorkers > 0 {
			c.Workers = animWorkers
		}
		if f.Changed("fps") && animFPS > 0 {
			c.FPS = animFPS
		}

		s, err := buildScene(path, c, logger)
		if err != nil {
			return err
		}
		if !s.table.Has(animate.LesionColumn) {
			return animate.ErrNoLesionTimes
		}

		res, runErr := animate.Run(cmd.Context(), logger,
			animate.Job{Table: s.table, Labels: s.labels, Renderer: s.renderer},
			animate.Options{
				OutDir:     animOutDir,
				Frames:     c.Frames,
				Step:       c.FrameStep,
				Workers:    c.Workers,
				FPS:        c.FPS,
				SkipVideo:  animNoVideo,
				TimeScaler: s.loaded.TimeScaler,
			})
		if res == nil {
			return runErr
		}

		m := run.New("animate", animOutDir)
		id, err := m.AddInput(path, s.loaded)
		if err != nil {
			return err
		}
		m.Inputs[id].Diagnostics = s.diagnostics
		m.AddOutput(res.Folders...)
		if res.Timeline != "" {
			m.AddOutput(res.Timeline)
		}
		m.AddOutput(res.Videos...)
		for _, e := range multierr.Errors(runErr) {
			m.Fail(nil, e)
		}
		m.Failed = append(m.Failed, res.Failed...)
		if err := m.Save(); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), m.Summary())
		switch {
		case len(res.Failed) > 0:
			return fmt.Errorf("%d of %d frames failed, see %s/run.json", len(res.Failed), res.Frames, animOutDir)
		case runErr != nil:
			return fmt.Errorf("animation incomplete: %w", runErr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(animateCmd)
	animateCmd.Flags().StringVarP(&animOutDir, "out", "o", "animation", "empty directory for frames, videos and run.json")
	animateCmd.Flags().IntVar(&animFrames, "frames", 1200, "number of frames (overrides config)")
	animateCmd.Flags().IntVar(&animStep, "step", 1, "render every n-th frame (overrides config)")
	animateCmd.Flags().IntVar(&animWorkers, "workers", 4, "concurrent frame renderers (overrides config)")
	animateCmd.Flags().Float64Var(&animFPS, "fps", 60, "video frame rate, capped at 60 (overrides config)")
	animateCmd.Flags().BoolVar(&animNoVideo, "no-video", false, "keep the frame folders without encoding videos")
	animDraw.register(animateCmd)
}
