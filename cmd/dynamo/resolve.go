package main

import (
	"fmt"

	"github.com/phanxgames/dynamo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type resolveReport struct {
	Groups map[string][]string        `yaml:"groups,omitempty"`
	States map[string]dynamo.Snapshot `yaml:"states"`
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [state...]",
		Short: "Print group members and resolved state snapshots as YAML",
		RunE:  runResolve,
	}
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd, nil)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = p.spec.StateNames()
	}
	report := resolveReport{
		Groups: make(map[string][]string),
		States: make(map[string]dynamo.Snapshot, len(names)),
	}
	for _, name := range p.eng.Groups().Names() {
		report.Groups[name], _ = p.eng.Groups().Members(name)
	}
	for _, name := range names {
		snap, err := p.eng.Snapshot(name)
		if err != nil {
			return err
		}
		report.States[name] = snap
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
