package main

import (
	"fmt"
	"strings"

	"github.com/phanxgames/dynamo"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a spec, and its groups and states against a scene when one is given",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	spec, err := loadSpec(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "spec %s: %d states, %d groups, %d animations\n",
		cfg.Spec, len(spec.States), len(spec.Groups), len(spec.Animations))
	fmt.Fprintf(out, "  fields: %s\n", strings.Join(spec.Fields(), " "))

	if cfg.Scene == "" {
		fmt.Fprintln(out, "No scene given; skipped group resolution.")
		return nil
	}
	scene, err := loadScene(cfg, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "scene %s: %d nodes\n", cfg.Scene, scene.Len())

	groups, err := dynamo.ResolveGroups(spec, scene, scene, cfg.resolveOptions())
	if err != nil {
		return err
	}
	var empty []string
	for _, name := range groups.Names() {
		ids, _ := groups.Members(name)
		fmt.Fprintf(out, "  group %s: %d member(s)\n", name, len(ids))
		if len(ids) == 0 {
			empty = append(empty, name)
		}
	}
	if _, err := dynamo.NewWithGroups(spec, scene, groups); err != nil {
		return err
	}
	if len(empty) > 0 {
		fmt.Fprintf(out, "Warning: groups with no members: %s\n", strings.Join(empty, ", "))
	}
	fmt.Fprintln(out, "OK")
	return nil
}
