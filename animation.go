package dynamo

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// timeline maps elapsed time since start onto normalized progress in [0, 1]
// over a fixed duration. The tween runs on float32 and only decides when the
// duration is over; t itself is elapsed/dur in float64.
type timeline struct {
	tween *gween.Tween
	dur   float64
	start time.Time
}

func newTimeline(dur float64, start time.Time) *timeline {
	return &timeline{
		tween: gween.New(0, 1, float32(dur), ease.Linear),
		dur:   dur,
		start: start,
	}
}

// progress returns the normalized time at now and whether the duration has
// fully elapsed. A finished timeline always reports t = 1.
func (tl *timeline) progress(now time.Time) (float64, bool) {
	elapsed := now.Sub(tl.start).Seconds()
	if _, done := tl.tween.Set(float32(elapsed)); done || tl.dur <= 0 {
		return 1, true
	}
	if elapsed <= 0 {
		return 0, false
	}
	return math.Min(elapsed/tl.dur, 1), false
}

// AnimationStatus is a read-only view of an active animation instance.
type AnimationStatus struct {
	ID       string
	SeqIndex int
	T        float64
	Cycles   int
	From, To string
}

// animation is the runtime state of an enabled AnimationDef.
//
// Each tick the current step is applied at t, then advance recomputes t from
// the clock. When t reaches 1 the instance moves to the next step with t = 0
// and restarts its timeline at the tick time; wrapping past the last step
// increments cycles.
type animation struct {
	id       string
	def      *AnimationDef
	seqIndex int
	t        float64
	cycles   int
	line     *timeline
	stopped  bool
}

func newAnimation(id string, def *AnimationDef, now time.Time) *animation {
	return &animation{
		id:   id,
		def:  def,
		line: newTimeline(def.Sequence[0].Dur, now),
	}
}

// current returns the active step.
func (a *animation) current() Step {
	return a.def.Sequence[a.seqIndex]
}

// advance updates t for now. It reports whether the sequence wrapped.
func (a *animation) advance(now time.Time) bool {
	t, done := a.line.progress(now)
	if !done {
		a.t = t
		return false
	}
	a.t = 0
	a.seqIndex++
	wrapped := false
	if a.seqIndex >= len(a.def.Sequence) {
		a.seqIndex = 0
		a.cycles++
		wrapped = true
	}
	a.line = newTimeline(a.current().Dur, now)
	return wrapped
}

// finished reports whether a non-cyclic instance has completed a pass.
func (a *animation) finished() bool {
	return !a.def.Cyclic() && a.cycles > 0
}

func (a *animation) status() AnimationStatus {
	step := a.current()
	return AnimationStatus{
		ID:       a.id,
		SeqIndex: a.seqIndex,
		T:        a.t,
		Cycles:   a.cycles,
		From:     step.From,
		To:       step.To,
	}
}

// transition is a one-shot timed blend started by DoStateTransition. It is
// applied every tick until t reaches 1, then onComplete runs once.
type transition struct {
	from, to   string
	line       *timeline
	onComplete func()
	done       bool
}
