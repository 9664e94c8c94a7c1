package dynamo

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a run script.
type scriptStep struct {
	Action    string  `json:"action"`
	Label     string  `json:"label,omitempty"`
	State     string  `json:"state,omitempty"`
	From      string  `json:"from,omitempty"`
	To        string  `json:"to,omitempty"`
	Dur       float64 `json:"dur,omitempty"`
	Animation string  `json:"animation,omitempty"`
	Frames    int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a run script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences engine operations across ticks, one step per tick,
// for scripted runs and reproducible tests. Attach to an Engine via
// SetScriptRunner.
//
// Actions: setState (state), transition (from, to, dur), enable and disable
// (animation), wait (frames), await (until no transition is pending) and
// snapshot (label, passed to OnSnapshot).
type ScriptRunner struct {
	// OnSnapshot is called for every snapshot step.
	OnSnapshot func(label string)

	steps     []scriptStep
	cursor    int
	waitCount int
	awaiting  bool
	done      bool
}

// LoadScript parses a JSON run script and returns a ScriptRunner ready to be
// attached to an Engine via SetScriptRunner.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "setState", "transition", "enable", "disable", "wait", "await", "snapshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the engine. The runner's step
// method is called from Tick after injected commands have run.
func (e *Engine) SetScriptRunner(runner *ScriptRunner) {
	e.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick. Called from Engine.TickAt.
func (r *ScriptRunner) step(e *Engine) error {
	if r.done {
		return nil
	}
	// Wait for injected commands to drain before advancing.
	if e.Queued() > 0 {
		return nil
	}
	if r.awaiting {
		if e.PendingTransitions() > 0 {
			return nil
		}
		r.awaiting = false
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "setState":
		err = e.SetState(st.State)
	case "transition":
		err = e.DoStateTransition(st.From, st.To, st.Dur, nil)
	case "enable":
		err = e.EnableAnimation(st.Animation)
	case "disable":
		e.DisableAnimation(st.Animation)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "await":
		r.awaiting = e.PendingTransitions() > 0
	case "snapshot":
		if r.OnSnapshot != nil {
			r.OnSnapshot(st.Label)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.awaiting {
		r.done = true
	}
	if err != nil {
		return fmt.Errorf("script step %d (%s): %w", r.cursor-1, st.Action, err)
	}
	return nil
}
