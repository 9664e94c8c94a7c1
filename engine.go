package dynamo

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine owns a loaded Spec, the resolved snapshot of every state and the set
// of running transitions and animations. It is single-threaded: every method
// except Inject must be called from the goroutine that calls Tick.
type Engine struct {
	spec      *Spec
	acc       Accessor
	groups    *GroupTable
	snapshots map[string]Snapshot
	failed    map[string]error

	clock          Clock
	logger         *slog.Logger
	sink           EventSink
	onStateChanged func(*Engine, string)
	debug          bool

	active      map[string]*animation
	transitions []*transition

	injectMu    sync.Mutex
	injectQueue []Command

	runner *ScriptRunner
}

// New resolves the groups of spec against scene, captures member save-states
// and precomputes the snapshot of every state.
func New(spec *Spec, scene Graph, opts ResolveOptions) (*Engine, error) {
	groups, err := ResolveGroups(spec, scene, scene, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve groups: %w", err)
	}
	return NewWithGroups(spec, scene, groups)
}

// NewWithGroups builds an engine from a pre-resolved group table. Snapshots
// are computed once here; every failing state is reported.
//
// When some states fail, the engine is returned together with the joined
// error. The remaining states work normally and the failing ones return their
// resolution error from Snapshot and every operation that uses them.
func NewWithGroups(spec *Spec, acc Accessor, groups *GroupTable) (*Engine, error) {
	if groups == nil {
		groups = NewGroupTable()
	}
	e := &Engine{
		spec:      spec,
		acc:       acc,
		groups:    groups,
		snapshots: make(map[string]Snapshot, len(spec.States)),
		failed:    make(map[string]error),
		clock:     SystemClock,
		logger:    slog.Default(),
		active:    make(map[string]*animation),
	}
	var errs []error
	for _, name := range spec.StateNames() {
		snap, err := resolveState(spec.States[name], groups)
		if err != nil {
			err = fmt.Errorf("state %q: %w", name, err)
			e.failed[name] = err
			errs = append(errs, err)
			continue
		}
		e.snapshots[name] = snap
	}
	e.logger.Info("dynamo initialized", "states", len(e.snapshots), "failed", len(e.failed), "groups", len(groups.members))
	return e, errors.Join(errs...)
}

func resolveState(st *State, groups *GroupTable) (Snapshot, error) {
	cl, err := Collect(st, groups)
	if err != nil {
		return nil, err
	}
	return Accumulate(cl, groups)
}

// SetClock replaces the clock sampled by Tick and by operations that start
// timelines.
func (e *Engine) SetClock(c Clock) {
	e.clock = c
}

// SetLogger replaces the structured logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	e.logger = l
}

// SetEventSink sets the optional lifecycle event bridge.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
}

// SetStateChangedHandler sets the callback invoked after SetState applies a
// state.
func (e *Engine) SetStateChangedHandler(fn func(*Engine, string)) {
	e.onStateChanged = fn
}

// SetDebugMode enables or disables per-tick timing stats, logged at debug
// level.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Spec returns the loaded spec.
func (e *Engine) Spec() *Spec {
	return e.spec
}

// Groups returns the resolved group table.
func (e *Engine) Groups() *GroupTable {
	return e.groups
}

// Snapshot returns the cached resolved snapshot of the named state. The
// snapshot is shared and MUST NOT be mutated.
func (e *Engine) Snapshot(name string) (Snapshot, error) {
	snap, ok := e.snapshots[name]
	if !ok {
		if err, broken := e.failed[name]; broken {
			return nil, err
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownState, name)
	}
	return snap, nil
}

// SetState applies the snapshot of the named state immediately, then invokes
// the state-changed handler.
func (e *Engine) SetState(name string) error {
	snap, err := e.Snapshot(name)
	if err != nil {
		return err
	}
	if _, err := e.apply(snap); err != nil {
		return fmt.Errorf("set state %q: %w", name, err)
	}
	e.logger.Info("state set", "state", name)
	if e.onStateChanged != nil {
		e.onStateChanged(e, name)
	}
	e.emit(Event{Type: EventStateChanged, State: name})
	return nil
}

// Transition computes the blend from one state to another at t without
// touching the scene.
func (e *Engine) Transition(from, to string, t float64) (Snapshot, error) {
	fs, err := e.Snapshot(from)
	if err != nil {
		return nil, err
	}
	ts, err := e.Snapshot(to)
	if err != nil {
		return nil, err
	}
	return Evaluate(fs, ts, t)
}

// DoStateTransition starts a one-shot transition of dur seconds. It is applied
// on every following Tick until t reaches 1, after which onComplete (if any)
// runs once. A zero duration jumps to the target on the next Tick.
func (e *Engine) DoStateTransition(from, to string, dur float64, onComplete func()) error {
	if _, err := e.Snapshot(from); err != nil {
		return err
	}
	if _, err := e.Snapshot(to); err != nil {
		return err
	}
	if dur < 0 {
		return fmt.Errorf("transition %q → %q: negative duration %v", from, to, dur)
	}
	e.transitions = append(e.transitions, &transition{
		from:       from,
		to:         to,
		line:       newTimeline(dur, e.clock.Now()),
		onComplete: onComplete,
	})
	return nil
}

// PendingTransitions returns the number of one-shot transitions still running.
func (e *Engine) PendingTransitions() int {
	return len(e.transitions)
}

// EnableAnimation starts the named animation from its first step. Enabling a
// running animation restarts it.
func (e *Engine) EnableAnimation(id string) error {
	def, ok := e.spec.Animations[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownAnimation, id)
	}
	if prev, ok := e.active[id]; ok {
		prev.stopped = true
	}
	e.active[id] = newAnimation(id, def, e.clock.Now())
	e.logger.Info("enable animation", "animation", id)
	e.emit(Event{Type: EventAnimationEnabled, Animation: id})
	return nil
}

// DisableAnimation stops the named animation. It is skipped from now on and
// dropped from the active set after the current scheduling pass. Unknown ids
// are ignored.
func (e *Engine) DisableAnimation(id string) {
	a, ok := e.active[id]
	if !ok || a.stopped {
		return
	}
	a.stopped = true
	e.logger.Info("disable animation", "animation", id)
	e.emit(Event{Type: EventAnimationDisabled, Animation: id, Cycles: a.cycles})
}

// Animation returns the status of a running animation.
func (e *Engine) Animation(id string) (AnimationStatus, bool) {
	a, ok := e.active[id]
	if !ok || a.stopped {
		return AnimationStatus{}, false
	}
	return a.status(), true
}

// Animations returns the status of every running animation ordered by id.
func (e *Engine) Animations() []AnimationStatus {
	var out []AnimationStatus
	for _, id := range sortedKeys(e.active) {
		if a := e.active[id]; !a.stopped {
			out = append(out, a.status())
		}
	}
	return out
}

// Tick runs one scheduling pass at the engine clock's current time.
func (e *Engine) Tick() error {
	return e.TickAt(e.clock.Now())
}

// TickAt runs one scheduling pass at now: queued commands, the script
// runner, one-shot transitions and then active animations in id order.
// Errors from individual transitions are joined; the pass always completes.
func (e *Engine) TickAt(now time.Time) error {
	var stats tickStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	var errs []error
	errs = append(errs, e.processInjected()...)
	if e.runner != nil {
		if err := e.runner.step(e); err != nil {
			errs = append(errs, err)
		}
	}

	pending := e.transitions
	for _, tr := range pending {
		t, done := tr.line.progress(now)
		n, err := e.applyTransition(tr.from, tr.to, t)
		stats.writes += n
		stats.transitions++
		if err != nil {
			errs = append(errs, err)
		}
		if done {
			tr.done = true
			e.emit(Event{Type: EventTransitionDone, From: tr.from, To: tr.to})
			if tr.onComplete != nil {
				tr.onComplete()
			}
		}
	}
	e.transitions = compactTransitions(e.transitions)

	for _, id := range sortedKeys(e.active) {
		a := e.active[id]
		if a.stopped {
			continue
		}
		step := a.current()
		n, err := e.applyTransition(step.From, step.To, a.t)
		stats.writes += n
		stats.animations++
		if err != nil {
			errs = append(errs, fmt.Errorf("animation %q: %w", id, err))
		}
		if a.advance(now) {
			e.emit(Event{Type: EventAnimationWrapped, Animation: id, Cycles: a.cycles})
		}
		if a.finished() {
			a.stopped = true
			e.logger.Info("remove animation", "animation", id, "cycles", a.cycles)
			e.emit(Event{Type: EventAnimationFinished, Animation: id, Cycles: a.cycles})
		}
	}
	for id, a := range e.active {
		if a.stopped {
			delete(e.active, id)
		}
	}

	if e.debug {
		stats.total = time.Since(t0)
		e.debugLog(stats)
	}
	return errors.Join(errs...)
}

func compactTransitions(list []*transition) []*transition {
	out := list[:0]
	for _, tr := range list {
		if !tr.done {
			out = append(out, tr)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

// applyTransition evaluates from → to at t and writes the result. Fields that
// failed to evaluate are not written.
func (e *Engine) applyTransition(from, to string, t float64) (int, error) {
	blended, evalErr := e.Transition(from, to, t)
	if blended == nil {
		return 0, evalErr
	}
	n, applyErr := e.apply(blended)
	if err := errors.Join(evalErr, applyErr); err != nil {
		return n, fmt.Errorf("transition %q → %q at t=%.3f: %w", from, to, t, err)
	}
	return n, nil
}

// apply writes every value of snap through the accessor in node and field
// order and returns the number of successful writes.
func (e *Engine) apply(snap Snapshot) (int, error) {
	var errs []error
	n := 0
	for _, id := range snap.NodeIDs() {
		for _, field := range snap.Fields(id) {
			if err := e.acc.SetAttribute(id, field, snap[id][field]); err != nil {
				errs = append(errs, err)
				continue
			}
			n++
		}
	}
	return n, errors.Join(errs...)
}

func (e *Engine) emit(ev Event) {
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}
