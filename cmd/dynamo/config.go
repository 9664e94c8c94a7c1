package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/dynamo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "dynamo.yaml"

// Config is the project file read by every command.
type Config struct {
	Spec  string `yaml:"spec"`
	Scene string `yaml:"scene"`
	// Namespace prefixes X3D DEF names to form node ids. Empty means
	// dynamo.DefaultX3DNamespace unless KeepDEF is set.
	Namespace string `yaml:"namespace"`
	KeepDEF   bool   `yaml:"keep_def"`
	Listen    string `yaml:"listen"`
	TPS       int    `yaml:"tps"`
	LogLevel  string `yaml:"log_level"`
	Debug     bool   `yaml:"debug"`
}

func defaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		TPS:      60,
		LogLevel: "info",
	}
}

// LoadConfig reads a project config. Relative spec and scene paths are
// resolved against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dir := filepath.Dir(path)
	cfg.Spec = relativeTo(dir, cfg.Spec)
	cfg.Scene = relativeTo(dir, cfg.Scene)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func (c *Config) validate() error {
	if c.TPS <= 0 || c.TPS > 1000 {
		return fmt.Errorf("tps must be in 1..1000, got %d", c.TPS)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

// X3DOptions returns the scene loading options.
func (c *Config) X3DOptions() dynamo.X3DOptions {
	return dynamo.X3DOptions{Namespace: c.Namespace, KeepDEF: c.KeepDEF}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// configFromFlags loads the config named by --config and applies the
// persistent flag overrides. A missing default config file is not an error.
func configFromFlags(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := LoadConfig(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !flags.Changed("config"):
		cfg = defaultConfig()
	default:
		return nil, err
	}

	if flags.Changed("spec") {
		cfg.Spec, _ = flags.GetString("spec")
	}
	if flags.Changed("scene") {
		cfg.Scene, _ = flags.GetString("scene")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
