package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/phanxgames/dynamo"
	"github.com/spf13/cobra"
)

// project is a loaded spec, scene and engine.
type project struct {
	cfg    *Config
	logger *slog.Logger
	spec   *dynamo.Spec
	scene  *dynamo.Scene
	eng    *dynamo.Engine
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func loadSpec(cfg *Config) (*dynamo.Spec, error) {
	if cfg.Spec == "" {
		return nil, fmt.Errorf("no spec given: set spec in %s or pass --spec", defaultConfigPath)
	}
	return dynamo.LoadSpecFile(cfg.Spec)
}

func loadScene(cfg *Config, logger *slog.Logger) (*dynamo.Scene, error) {
	if cfg.Scene == "" {
		return nil, fmt.Errorf("no scene given: set scene in %s or pass --scene", defaultConfigPath)
	}
	scene, err := dynamo.LoadSceneFile(cfg.Scene, cfg.X3DOptions())
	if err != nil {
		return nil, err
	}
	scene.SetLogger(logger)
	scene.SetDebugMode(cfg.Debug)
	return scene, nil
}

// resolveOptions applies the DEF namespace only to X3D scenes; JSON and YAML
// scene documents carry their ids verbatim.
func (c *Config) resolveOptions() dynamo.ResolveOptions {
	switch strings.ToLower(filepath.Ext(c.Scene)) {
	case ".x3d", ".xml":
		return c.X3DOptions().ResolveOptions()
	}
	return dynamo.ResolveOptions{}
}

// openProject loads everything and builds an engine writing to graph, or to
// the scene itself when wrap is nil.
func openProject(cmd *cobra.Command, wrap func(*dynamo.Scene) dynamo.Graph) (*project, error) {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	spec, err := loadSpec(cfg)
	if err != nil {
		return nil, err
	}
	scene, err := loadScene(cfg, logger)
	if err != nil {
		return nil, err
	}

	var graph dynamo.Graph = scene
	if wrap != nil {
		graph = wrap(scene)
	}
	eng, err := dynamo.New(spec, graph, cfg.resolveOptions())
	if err != nil {
		return nil, err
	}
	eng.SetLogger(logger)
	eng.SetDebugMode(cfg.Debug)

	return &project{cfg: cfg, logger: logger, spec: spec, scene: scene, eng: eng}, nil
}
