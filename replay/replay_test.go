package replay_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/datum/action"
	"github.com/tailored-agentic-units/datum/observability"
	"github.com/tailored-agentic-units/datum/reducer"
	"github.com/tailored-agentic-units/datum/remote"
	"github.com/tailored-agentic-units/datum/replay"
)

const (
	keyA = "6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11"
	keyB = "0b4e7c2d-3f9a-4d8e-8a71-2c5d9e6f1a30"
)

const lifecycleScript = `
family: FETCH_REPORT
steps:
  - phase: start
    key: 6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11
  - phase: success
    key: 6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11
    result: ready
  - phase: start
    key: 6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11
  - phase: start
    key: 0b4e7c2d-3f9a-4d8e-8a71-2c5d9e6f1a30
  - phase: failure
    key: 6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11
    error: timeout
`

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func (c *captureObserver) count(t observability.EventType) int {
	n := 0
	for _, e := range c.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func quietConfig() replay.Config {
	cfg := replay.DefaultConfig()
	cfg.Observer = "noop"
	return cfg
}

func TestParseScript(t *testing.T) {
	script, err := replay.ParseScript([]byte(lifecycleScript))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	if script.Family != "FETCH_REPORT" {
		t.Errorf("Family = %q, want FETCH_REPORT", script.Family)
	}
	if len(script.Steps) != 5 {
		t.Fatalf("got %d steps, want 5", len(script.Steps))
	}
	if script.Steps[1].Result != "ready" || script.Steps[4].Error != "timeout" {
		t.Errorf("steps = %+v", script.Steps)
	}
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "no steps", input: "family: X\n", wantErr: replay.ErrEmptyScript},
		{name: "malformed yaml", input: "steps: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := replay.ParseScript([]byte(tt.input))
			if err == nil {
				t.Fatal("ParseScript() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseScript() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseScript_DefaultFamily(t *testing.T) {
	script, err := replay.ParseScript([]byte("steps:\n  - phase: start\n    key: " + keyA + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if script.Family != "REQUEST" {
		t.Errorf("Family = %q, want REQUEST", script.Family)
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(lifecycleScript), 0o600); err != nil {
		t.Fatal(err)
	}

	script, err := replay.LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	if len(script.Steps) != 5 {
		t.Errorf("got %d steps, want 5", len(script.Steps))
	}

	if _, err := replay.LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadScript() should fail for a missing file")
	}
}

func TestRun_Lifecycle(t *testing.T) {
	script, err := replay.ParseScript([]byte(lifecycleScript))
	if err != nil {
		t.Fatal(err)
	}

	result, err := replay.Run(context.Background(), quietConfig(), script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Applied != 5 || len(result.Snapshots) != 5 {
		t.Fatalf("Applied = %d, snapshots = %d, want 5", result.Applied, len(result.Snapshots))
	}

	wantA := []remote.Status{
		remote.StatusInFlight,
		remote.StatusSucceeded,
		remote.StatusStale,
		remote.StatusStale,
		remote.StatusFailed,
	}
	for i, snap := range result.Snapshots {
		if got := snap.Request(keyA).Status(); got != wantA[i] {
			t.Errorf("snapshot %d: A = %s, want %s", i, got, wantA[i])
		}
	}

	if v, ok := result.Snapshots[2].Request(keyA).Value(); !ok || v != "ready" {
		t.Errorf("stale snapshot should retain \"ready\", got %s", result.Snapshots[2].Request(keyA))
	}
	if e, ok := result.State.Request(keyA).Err(); !ok || e != "timeout" {
		t.Errorf("final A = %s, want Failed(timeout)", result.State.Request(keyA))
	}
	if got := result.State.Request(keyB).Status(); got != remote.StatusInFlight {
		t.Errorf("final B = %s, want in_flight", got)
	}
	if got := result.Snapshots[0].Request(keyB).Status(); got != remote.StatusNotStarted {
		t.Errorf("B before its start = %s, want not_started", got)
	}
	if err := result.SkippedErr(); err != nil {
		t.Errorf("SkippedErr() = %v, want nil", err)
	}
}

func TestRun_FailFast(t *testing.T) {
	script := &replay.Script{
		Family: "FETCH",
		Steps: []replay.Step{
			{Phase: "start", Key: keyA},
			{Phase: "retry", Key: keyA},
			{Phase: "success", Key: keyA, Result: "ok"},
		},
	}
	cfg := quietConfig()
	cfg.FailFast = true

	result, err := replay.Run(context.Background(), cfg, script)

	var stepErr *replay.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Run() error = %v, want *StepError", err)
	}
	if stepErr.Index != 1 || !errors.Is(err, replay.ErrUnknownPhase) {
		t.Errorf("StepError = %v", stepErr)
	}
	if result.Applied != 1 {
		t.Errorf("Applied = %d, want 1", result.Applied)
	}
}

func TestRun_SkipsInvalidSteps(t *testing.T) {
	obs := &captureObserver{}
	observability.RegisterObserver("replay-test", obs)

	script := &replay.Script{
		Family: "FETCH",
		Steps: []replay.Step{
			{Phase: "start", Key: "not-a-uuid"},
			{Phase: "start", Key: keyA},
			{Phase: "success", Key: keyA, Result: "ok"},
		},
	}
	cfg := replay.DefaultConfig()
	cfg.Observer = "replay-test"

	result, err := replay.Run(context.Background(), cfg, script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Applied != 2 || len(result.Skipped) != 1 {
		t.Fatalf("Applied = %d, Skipped = %d, want 2 and 1", result.Applied, len(result.Skipped))
	}
	if !errors.Is(result.SkippedErr(), replay.ErrInvalidKey) {
		t.Errorf("SkippedErr() = %v, want ErrInvalidKey", result.SkippedErr())
	}
	if v, _ := result.State.Request(keyA).Value(); v != "ok" {
		t.Errorf("final A = %s, want Succeeded(ok)", result.State.Request(keyA))
	}

	counts := map[observability.EventType]int{
		replay.EventReplayStart:    1,
		replay.EventReplaySkip:     1,
		replay.EventReplayStep:     2,
		replay.EventReplayComplete: 1,
		reducer.EventDispatch:      2,
		reducer.EventTransition:    2,
	}
	for typ, want := range counts {
		if got := obs.count(typ); got != want {
			t.Errorf("%s events = %d, want %d", typ, got, want)
		}
	}
}

func TestRun_OnlyInvalidStepsYieldsDefaultState(t *testing.T) {
	script := &replay.Script{Steps: []replay.Step{{Phase: "start", Key: "bad"}}}

	result, err := replay.Run(context.Background(), quietConfig(), script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.State.Requests == nil || len(result.State.Requests) != 0 {
		t.Errorf("State = %+v, want empty default collection", result.State)
	}
}

func TestRun_Errors(t *testing.T) {
	script := &replay.Script{Steps: []replay.Step{{Phase: "start", Key: keyA}}}

	if _, err := replay.Run(context.Background(), quietConfig(), nil); !errors.Is(err, replay.ErrEmptyScript) {
		t.Errorf("Run(nil) error = %v, want ErrEmptyScript", err)
	}

	cfg := quietConfig()
	cfg.Observer = "does-not-exist"
	if _, err := replay.Run(context.Background(), cfg, script); err == nil {
		t.Error("Run() should fail for an unknown observer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := replay.Run(ctx, quietConfig(), script); !errors.Is(err, context.Canceled) {
		t.Errorf("Run(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestStep_Action(t *testing.T) {
	family := action.NewAsync[uuid.UUID, string, string]("FETCH")

	tests := []struct {
		name    string
		step    replay.Step
		wantErr error
	}{
		{name: "start", step: replay.Step{Phase: "start", Key: keyA}},
		{name: "success", step: replay.Step{Phase: "success", Key: keyA, Result: "x"}},
		{name: "failure", step: replay.Step{Phase: "failure", Key: keyA, Error: "y"}},
		{name: "bad phase", step: replay.Step{Phase: "cancel", Key: keyA}, wantErr: replay.ErrUnknownPhase},
		{name: "bad key", step: replay.Step{Phase: "start", Key: "123"}, wantErr: replay.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.step.Action(family)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Action() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_EmptyFamilyUsesDefault(t *testing.T) {
	obs := &captureObserver{}
	observability.RegisterObserver("replay-default-family", obs)

	script := &replay.Script{Steps: []replay.Step{{Phase: "start", Key: keyA}}}
	cfg := replay.DefaultConfig()
	cfg.Observer = "replay-default-family"

	result, err := replay.Run(context.Background(), cfg, script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := result.State.Request(keyA).Status(); got != remote.StatusInFlight {
		t.Errorf("A = %s, want in_flight", got)
	}

	var sawStep, sawTransition bool
	for _, e := range obs.events {
		switch e.Type {
		case replay.EventReplayStart:
			if e.Data["family"] != replay.DefaultFamily {
				t.Errorf("start family = %v, want %s", e.Data["family"], replay.DefaultFamily)
			}
		case replay.EventReplayStep:
			sawStep = true
			if e.Data["action"] != replay.DefaultFamily+"_STARTED" {
				t.Errorf("step action = %v, want %s_STARTED", e.Data["action"], replay.DefaultFamily)
			}
		case reducer.EventTransition:
			sawTransition = true
			if e.Data["family"] != replay.DefaultFamily {
				t.Errorf("transition family = %v, want %s", e.Data["family"], replay.DefaultFamily)
			}
		}
	}
	if !sawStep || !sawTransition {
		t.Errorf("missing events: step=%v transition=%v", sawStep, sawTransition)
	}
}
