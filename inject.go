package dynamo

import (
	"fmt"
	"strings"
)

// Op names an engine operation carried by a Command.
type Op string

const (
	OpSetState   Op = "setState"
	OpTransition Op = "transition"
	OpEnable     Op = "enable"
	OpDisable    Op = "disable"
)

// Command is an engine operation queued from another goroutine. Name is the
// state for OpSetState and the animation for OpEnable and OpDisable; From, To
// and Duration describe an OpTransition.
type Command struct {
	Op       Op      `json:"op" yaml:"op"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	From     string  `json:"from,omitempty" yaml:"from,omitempty"`
	To       string  `json:"to,omitempty" yaml:"to,omitempty"`
	Duration float64 `json:"dur,omitempty" yaml:"dur,omitempty"`
}

func (c Command) String() string {
	switch c.Op {
	case OpTransition:
		return fmt.Sprintf("%s %s→%s %gs", c.Op, c.From, c.To, c.Duration)
	default:
		return strings.TrimSpace(fmt.Sprintf("%s %s", c.Op, c.Name))
	}
}

// Inject queues cmd for the next Tick. It is the only Engine method that is
// safe to call from any goroutine.
func (e *Engine) Inject(cmd Command) {
	e.injectMu.Lock()
	e.injectQueue = append(e.injectQueue, cmd)
	e.injectMu.Unlock()
}

// Queued returns the number of injected commands not yet run.
func (e *Engine) Queued() int {
	e.injectMu.Lock()
	defer e.injectMu.Unlock()
	return len(e.injectQueue)
}

// processInjected runs every queued command in arrival order.
func (e *Engine) processInjected() []error {
	e.injectMu.Lock()
	queue := e.injectQueue
	e.injectQueue = nil
	e.injectMu.Unlock()

	var errs []error
	for _, cmd := range queue {
		if err := e.Exec(cmd); err != nil {
			errs = append(errs, fmt.Errorf("injected %s: %w", cmd, err))
		}
	}
	return errs
}

// Exec runs cmd immediately on the calling goroutine.
func (e *Engine) Exec(cmd Command) error {
	switch cmd.Op {
	case OpSetState:
		return e.SetState(cmd.Name)
	case OpTransition:
		return e.DoStateTransition(cmd.From, cmd.To, cmd.Duration, nil)
	case OpEnable:
		return e.EnableAnimation(cmd.Name)
	case OpDisable:
		e.DisableAnimation(cmd.Name)
		return nil
	default:
		return fmt.Errorf("unknown command op %q", cmd.Op)
	}
}
