// Package animate renders the damage table frame by frame as lesions
// accumulate and stitches each frame folder into a video.
package animate

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/unixpickle/ffmpego"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/plot"
	"github.com/KaramelBytes/sddviz-cli/internal/selection"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// ErrNoLesionTimes is returned for tables without a lesiontimes column.
var ErrNoLesionTimes = errors.New("table has no lesion times; animation needs an SDD with the lesiontime field")

// LesionColumn is the frame-scaled lesion time column.
const LesionColumn = "lesiontimes"

// UnlabeledFolder holds the frames drawn without coloring.
const UnlabeledFolder = "unlabeled"

// MaxFPS caps the video frame rate.
const MaxFPS = 60

// Options controls an animation run.
type Options struct {
	OutDir  string
	Frames  int
	Step    int
	Workers int
	FPS     float64
	// SkipVideo leaves the frame folders without stitching them.
	SkipVideo bool
	// TimeScaler maps frame indices back to lesion times for frame titles.
	TimeScaler *normalize.Scaler
}

func (o Options) withDefaults() Options {
	if o.Frames <= 0 {
		o.Frames = 1200
	}
	if o.Step <= 0 {
		o.Step = 1
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.FPS <= 0 || o.FPS > MaxFPS {
		o.FPS = MaxFPS
	}
	return o
}

// Job is the read-only input shared by every frame worker.
type Job struct {
	Table    *table.Table
	Labels   *selection.Labeling
	Renderer *plot.Renderer
}

// Result lists what a run produced. Failed frames are also folded into the
// error returned by Run.
type Result struct {
	Folders  []string
	Videos   []string
	Timeline string
	Frames   int
	Failed   []int
}

// Run renders frames 1..Frames (every Step-th) with a bounded worker pool.
// Frame i shows the events whose lesion time is at most i. A frame that
// fails is logged and recorded without stopping the others; the combined
// frame errors are returned alongside the result.
func Run(ctx context.Context, log *zap.Logger, job Job, opts Options) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	times, ok := job.Table.Column(LesionColumn)
	if !ok {
		return nil, ErrNoLesionTimes
	}
	if err := PrepareOutDir(opts.OutDir); err != nil {
		return nil, err
	}

	res := &Result{}
	folders := map[string]string{}
	var labeled []string
	if job.Labels != nil {
		labeled = job.Labels.Columns
	}
	for _, col := range append(append([]string{}, labeled...), UnlabeledFolder) {
		dir := filepath.Join(opts.OutDir, col)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create frame folder: %w", err)
		}
		folders[col] = dir
		res.Folders = append(res.Folders, dir)
	}

	var indices []int
	for i := 1; i <= opts.Frames; i += opts.Step {
		indices = append(indices, i)
	}
	res.Frames = len(indices)

	var (
		mu     sync.Mutex
		errs   error
		failed = map[int]bool{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, i := range indices {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := renderFrame(job, times, labeled, folders, i, opts.TimeScaler); err != nil {
				log.Warn("frame failed", zap.Int("frame", i), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("frame %d: %w", i, err))
				failed[i] = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render frames: %w", err)
	}
	for _, i := range indices {
		if failed[i] {
			res.Failed = append(res.Failed, i)
		}
	}
	log.Info("frames rendered", zap.Int("frames", len(indices)), zap.Int("failed", len(res.Failed)))

	timeline := filepath.Join(opts.OutDir, "timeline.png")
	if err := writeTimeline(timeline, times, opts.Frames); err != nil {
		log.Warn("timeline failed", zap.Error(err))
		errs = multierr.Append(errs, err)
	} else {
		res.Timeline = timeline
	}

	if !opts.SkipVideo {
		videoDir := filepath.Join(opts.OutDir, "videos")
		if err := os.MkdirAll(videoDir, 0o755); err != nil {
			return res, multierr.Append(errs, fmt.Errorf("create video folder: %w", err))
		}
		for _, col := range append(append([]string{}, labeled...), UnlabeledFolder) {
			out := filepath.Join(videoDir, col+".mp4")
			paths := framePaths(folders[col], col, indices, failed)
			if err := Stitch(paths, out, opts.FPS); err != nil {
				log.Warn("video failed", zap.String("folder", col), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("video %s: %w", col, err))
				continue
			}
			res.Videos = append(res.Videos, out)
		}
	}
	return res, errs
}

// FrameName is the file name of frame i in the folder for col.
func FrameName(col string, i int) string {
	if col == UnlabeledFolder {
		return fmt.Sprintf("damage_%d.png", i)
	}
	return fmt.Sprintf("damage_%s_%d.png", col, i)
}

func framePaths(dir, col string, indices []int, failed map[int]bool) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if !failed[i] {
			out = append(out, filepath.Join(dir, FrameName(col, i)))
		}
	}
	return out
}

func renderFrame(job Job, times []float64, labeled []string, folders map[string]string, i int, ts *normalize.Scaler) error {
	var rows []int
	for r, v := range times {
		if v <= float64(i) {
			rows = append(rows, r)
		}
	}
	sub := job.Table.Select(rows)
	var labels *selection.Labeling
	if job.Labels != nil {
		labels = job.Labels.Select(rows)
	}
	title := fmt.Sprintf("frame %d  damages %d", i, len(rows))
	if ts != nil {
		title = fmt.Sprintf("frame %d  t=%.4g  damages %d", i, ts.Inverse(float64(i)), len(rows))
	}

	for _, col := range append(append([]string{}, labeled...), UnlabeledFolder) {
		f := plot.Frame{Table: sub, Title: title}
		if col != UnlabeledFolder {
			f.Labels, f.Column = labels, col
		}
		img, err := job.Renderer.Draw(f)
		if err != nil {
			return err
		}
		if err := plot.SavePNG(img, filepath.Join(folders[col], FrameName(col, i))); err != nil {
			return err
		}
	}
	return nil
}

func writeTimeline(path string, times []float64, frames int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create timeline: %w", err)
	}
	if err := plot.Timeline(f, times, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Stitch encodes the PNG frames at paths, in order, into a video at out.
func Stitch(paths []string, out string, fps float64) error {
	if len(paths) == 0 {
		return errors.New("no frames to stitch")
	}
	if fps <= 0 || fps > MaxFPS {
		fps = MaxFPS
	}
	var vw *ffmpego.VideoWriter
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return multierr.Append(err, closeWriter(vw))
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return multierr.Append(fmt.Errorf("decode %s: %w", p, err), closeWriter(vw))
		}
		if vw == nil {
			b := img.Bounds()
			if vw, err = ffmpego.NewVideoWriter(out, b.Dx(), b.Dy(), fps); err != nil {
				return fmt.Errorf("open video: %w", err)
			}
		}
		if err := vw.WriteFrame(img); err != nil {
			return multierr.Append(fmt.Errorf("write %s: %w", p, err), closeWriter(vw))
		}
	}
	return closeWriter(vw)
}

func closeWriter(vw *ffmpego.VideoWriter) error {
	if vw == nil {
		return nil
	}
	return vw.Close()
}

// PrepareOutDir creates dir if needed and refuses one that already has
// entries, so frames from different runs never mix.
func PrepareOutDir(dir string) error {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read output directory: %w", err)
	case len(entries) > 0:
		return fmt.Errorf("output directory %s is not empty", dir)
	}
	return nil
}
