// Command dynamo validates, inspects, simulates and serves dynamo animation
// specs against X3D or JSON/YAML scenes.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dynamo",
		Short:         "Declarative state animation for 3D scene graphs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringP("config", "c", defaultConfigPath, "project config file")
	flags.String("spec", "", "animation spec (.json, .yaml), overrides config")
	flags.String("scene", "", "scene file (.x3d, .xml, .json, .yaml), overrides config")
	flags.String("log-level", "", "log level (debug, info, warn, error), overrides config")

	root.AddCommand(validateCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(simulateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(viewCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
