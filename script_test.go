package dynamo

import (
	"os"
	"slices"
	"testing"
)

func TestLoadScript(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty script")
	}
	if _, err := LoadScript([]byte(`{"steps": [{"action": "jump"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
	if _, err := LoadScript([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestScriptRunner(t *testing.T) {
	data, err := os.ReadFile("testdata/blink.json")
	if err != nil {
		t.Fatal(err)
	}
	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	eng, scene, clock := newHouseEngine(t)

	var labels []string
	var doorAtOpened string
	runner.OnSnapshot = func(label string) {
		labels = append(labels, label)
		if label == "opened" {
			doorAtOpened = attr(t, scene, "__door", "translation")
		}
	}
	eng.SetScriptRunner(runner)

	for i := 0; i < 50 && !runner.Done(); i++ {
		tickN(t, eng, clock, 1)
	}
	if !runner.Done() {
		t.Fatal("script did not finish in 50 ticks")
	}
	if want := []string{"opened", "end"}; !slices.Equal(labels, want) {
		t.Errorf("snapshots = %v, want %v", labels, want)
	}
	if doorAtOpened != "1 0 0" {
		t.Errorf("door at opened = %q, want 1 0 0", doorAtOpened)
	}
	if _, ok := eng.Animation("flash"); ok {
		t.Error("flash still running after disable step")
	}
}

func TestScriptRunnerWaitsForInjected(t *testing.T) {
	runner, err := LoadScript([]byte(`{"steps": [{"action": "snapshot", "label": "x"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	eng, _, clock := newHouseEngine(t)
	eng.SetScriptRunner(runner)

	var fired bool
	runner.OnSnapshot = func(string) { fired = true }
	eng.Inject(Command{Op: OpSetState, Name: "open"})
	// Injected commands run first in the tick, so the queue is empty by the
	// time the runner steps.
	tickN(t, eng, clock, 1)
	if !fired || !runner.Done() {
		t.Errorf("fired=%v done=%v, want both", fired, runner.Done())
	}
}

func TestScriptRunnerReportsStepErrors(t *testing.T) {
	runner, err := LoadScript([]byte(`{"steps": [{"action": "setState", "state": "nope"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	eng, _, clock := newHouseEngine(t)
	eng.SetScriptRunner(runner)
	clock.Advance(tickStep)
	if err := eng.Tick(); err == nil {
		t.Error("expected step error from Tick")
	}
	if !runner.Done() {
		t.Error("runner should finish after its last step even when it fails")
	}
}
