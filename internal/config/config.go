package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Drawing frame; coordinates are scaled into [-min(w,h), min(w,h)].
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
	// Output image size in pixels
	ImageWidth  int `mapstructure:"image_width" yaml:"image_width"`
	ImageHeight int `mapstructure:"image_height" yaml:"image_height"`

	// Animation
	Workers   int     `mapstructure:"workers" yaml:"workers"`
	FPS       float64 `mapstructure:"fps" yaml:"fps"`
	Frames    int     `mapstructure:"frames" yaml:"frames"`
	FrameStep int     `mapstructure:"frame_step" yaml:"frame_step"`

	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	Size         bool   `mapstructure:"size" yaml:"size"`
	Points       bool   `mapstructure:"points" yaml:"points"`
	FilterFile   string `mapstructure:"filter_file" yaml:"filter_file"`
	LabelFile    string `mapstructure:"label_file" yaml:"label_file"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"width", "height", "image_width", "image_height",
	"workers", "fps", "frames", "frame_step",
	"output_format", "size", "points", "filter_file", "label_file",
	"log_level", "log_format",
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sddviz"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sddviz/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SDDVIZ")
	v.AutomaticEnv()

	v.SetDefault("width", 10)
	v.SetDefault("height", 10)
	v.SetDefault("image_width", 640)
	v.SetDefault("image_height", 480)
	v.SetDefault("workers", 4)
	v.SetDefault("fps", 60)
	v.SetDefault("frames", 1200)
	v.SetDefault("frame_step", 1)
	v.SetDefault("output_format", "csv")
	v.SetDefault("size", false)
	v.SetDefault("points", false)
	v.SetDefault("filter_file", "")
	v.SetDefault("label_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
