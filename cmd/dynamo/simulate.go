package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phanxgames/dynamo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type simulateOptions struct {
	script   string
	state    string
	enable   []string
	ticks    int
	maxTicks int
	dt       time.Duration
}

func simulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the engine on a fixed-step clock and print scene values",
		Long: `Runs the engine headless on a fixed-step clock.

With --script, the JSON step script is executed one step per tick and the scene
values are printed at every snapshot step. Without it, --state and --enable set
up the engine and the values are printed after --ticks ticks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.script, "script", "", "JSON step script")
	flags.StringVar(&opts.state, "state", "", "state to set before the first tick")
	flags.StringSliceVar(&opts.enable, "enable", nil, "animations to enable before the first tick")
	flags.IntVar(&opts.ticks, "ticks", 60, "ticks to run without a script")
	flags.IntVar(&opts.maxTicks, "max-ticks", 100000, "give up on a script after this many ticks")
	flags.DurationVar(&opts.dt, "dt", 0, "tick period (default 1s/tps)")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	p, err := openProject(cmd, nil)
	if err != nil {
		return err
	}
	dt := opts.dt
	if dt <= 0 {
		dt = time.Second / time.Duration(p.cfg.TPS)
	}
	clock := dynamo.NewManualClock(time.Unix(0, 0))
	p.eng.SetClock(clock)
	out := cmd.OutOrStdout()

	if opts.state != "" {
		if err := p.eng.SetState(opts.state); err != nil {
			return err
		}
	}
	for _, id := range opts.enable {
		if err := p.eng.EnableAnimation(id); err != nil {
			return err
		}
	}

	var runner *dynamo.ScriptRunner
	var printErr error
	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		runner, err = dynamo.LoadScript(data)
		if err != nil {
			return err
		}
		runner.OnSnapshot = func(label string) {
			if printErr == nil {
				printErr = printValues(out, label, clock.Now(), p)
			}
		}
		p.eng.SetScriptRunner(runner)
	}

	limit := opts.ticks
	if runner != nil {
		limit = opts.maxTicks
	}
	ticks := 0
	for ; ticks < limit; ticks++ {
		if runner != nil && runner.Done() {
			break
		}
		clock.Advance(dt)
		if err := p.eng.Tick(); err != nil {
			return fmt.Errorf("tick %d: %w", ticks+1, err)
		}
	}
	if printErr != nil {
		return printErr
	}
	if runner != nil && !runner.Done() {
		return fmt.Errorf("script not finished after %d ticks", ticks)
	}
	p.logger.Info("simulation finished", "ticks", ticks, "elapsed", clock.Now().Sub(time.Unix(0, 0)))

	if err := printValues(out, "final", clock.Now(), p); err != nil {
		return err
	}
	for _, st := range p.eng.Animations() {
		fmt.Fprintf(out, "# animation %s: step %d (%s -> %s) t=%.3f cycles=%d\n",
			st.ID, st.SeqIndex, st.From, st.To, st.T, st.Cycles)
	}
	return nil
}

func printValues(w io.Writer, label string, now time.Time, p *project) error {
	fmt.Fprintf(w, "--- # %s at %s\n", label, now.Sub(time.Unix(0, 0)))
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p.scene.Values(p.spec.Fields())); err != nil {
		return fmt.Errorf("encoding values: %w", err)
	}
	return enc.Close()
}
