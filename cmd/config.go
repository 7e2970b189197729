package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sddviz-cli/internal/config"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set sddviz configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "width: %g\n", cfg.Width)
		fmt.Fprintf(out, "height: %g\n", cfg.Height)
		fmt.Fprintf(out, "image_width: %d\n", cfg.ImageWidth)
		fmt.Fprintf(out, "image_height: %d\n", cfg.ImageHeight)
		fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "fps: %g\n", cfg.FPS)
		fmt.Fprintf(out, "frames: %d\n", cfg.Frames)
		fmt.Fprintf(out, "frame_step: %d\n", cfg.FrameStep)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "size: %t\n", cfg.Size)
		fmt.Fprintf(out, "points: %t\n", cfg.Points)
		if cfg.FilterFile != "" {
			fmt.Fprintf(out, "filter_file: %s\n", cfg.FilterFile)
		}
		if cfg.LabelFile != "" {
			fmt.Fprintf(out, "label_file: %s\n", cfg.LabelFile)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setKey(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	switch key {
	case "width", "height", "fps":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid positive float for %s: %v", key, val)
		}
		switch key {
		case "width":
			c.Width = f
		case "height":
			c.Height = f
		default:
			c.FPS = f
		}
	case "image_width", "image_height", "workers", "frames", "frame_step":
		i, err := positive()
		if err != nil {
			return err
		}
		switch key {
		case "image_width":
			c.ImageWidth = i
		case "image_height":
			c.ImageHeight = i
		case "workers":
			c.Workers = i
		case "frames":
			c.Frames = i
		default:
			c.FrameStep = i
		}
	case "output_format":
		f, err := table.ParseFormat(val)
		if err != nil {
			return err
		}
		c.OutputFormat = string(f)
	case "size", "points":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %w", key, err)
		}
		if key == "size" {
			c.Size = b
		} else {
			c.Points = b
		}
	case "filter_file":
		c.FilterFile = val
	case "label_file":
		c.LabelFile = val
	case "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.LogLevel = val
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "log_format":
		switch val {
		case "console", "json":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s (known: %v)", key, cfgpkg.Keys)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
