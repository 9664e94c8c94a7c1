package main

import (
	"github.com/phanxgames/dynamo/ebitenhost"
	"github.com/spf13/cobra"
)

func viewCmd() *cobra.Command {
	var width, height int
	var scale, dur float64
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a window that plays states and animations against the scene",
		Long: `Opens an Ebitengine window showing nodes with a translation from above.

Keys: 1-9 set a state, T transitions to the next state, Tab selects an
animation and Enter toggles it, Space pauses, '.' steps while paused, Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, nil)
			if err != nil {
				return err
			}
			return ebitenhost.Run(p.eng, ebitenhost.RunConfig{
				Title:         "dynamo - " + p.cfg.Spec,
				Width:         width,
				Height:        height,
				TPS:           p.cfg.TPS,
				ShowHUD:       true,
				Scene:         p.scene,
				Scale:         scale,
				TransitionDur: dur,
				Logger:        p.logger,
			})
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&width, "width", 960, "window width")
	flags.IntVar(&height, "height", 640, "window height")
	flags.Float64Var(&scale, "scale", 40, "pixels per scene unit")
	flags.Float64Var(&dur, "transition", 1, "duration in seconds of the T key transition")
	return cmd
}
