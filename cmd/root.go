package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/sddviz-cli/internal/config"
	"github.com/KaramelBytes/sddviz-cli/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Shared logger, built before each command runs
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sddviz",
	Short: "sddviz: parse, inspect and visualize SDD DNA damage reports",
	Long: `sddviz reads Standard DNA Damage (SDD) reports into a flat event table,
summarizes them, and renders the damage sites as still images or as an
animation over lesion time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		lc := logging.Config{Level: c.LogLevel, Format: c.LogFormat}
		if debug {
			lc.Level = "debug"
			lc.Development = true
		}
		l, err := logging.New(lc)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sddviz/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log encoding: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("log-format") && logFormat != "" {
		cfg.LogFormat = logFormat
	}
}

// settings returns the loaded configuration, or the defaults when none
// could be read.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		Width: 10, Height: 10, ImageWidth: 640, ImageHeight: 480,
		Workers: 4, FPS: 60, Frames: 1200, FrameStep: 1,
		OutputFormat: "csv", LogLevel: "info", LogFormat: "console",
	}
}
