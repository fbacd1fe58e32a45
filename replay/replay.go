// Package replay drives the remote-data reducers from a YAML script of
// start, success, and failure steps and reports the resulting collection.
//
// It stands in for a store's dispatch loop when inspecting how a sequence of
// request events settles: each step becomes an action of a UUID-keyed async
// family and is folded through an entity reducer built with reducer.For.
package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/datum/action"
	"github.com/tailored-agentic-units/datum/lens"
	"github.com/tailored-agentic-units/datum/observability"
	"github.com/tailored-agentic-units/datum/reducer"
	"github.com/tailored-agentic-units/datum/remote"
)

// State is the replayed store state: one remote-data entry per request key.
type State struct {
	Requests reducer.Collection[string, string] `json:"requests"`
}

// Request returns the entry for key, NotStarted when absent.
func (s State) Request(key string) remote.Data[string, string] {
	return s.Requests.Lookup(key)
}

var requests = lens.New(
	func(s State) reducer.Collection[string, string] { return s.Requests },
	func(c reducer.Collection[string, string], s State) State {
		s.Requests = c
		return s
	},
)

// Result is the outcome of a replay.
type Result struct {
	// State is the state after the last applied step.
	State State `json:"state"`

	// Snapshots holds the state after each applied step.
	Snapshots []State `json:"snapshots"`

	// Applied counts steps folded into State.
	Applied int `json:"applied"`

	// Skipped holds the steps rejected when FailFast is off.
	Skipped []*StepError `json:"-"`
}

// Reducer returns the root reducer replay uses for family.
func Reducer(name string, family Family, observer observability.Observer) reducer.Root[State] {
	adapters := reducer.For[State](family, reducer.WithObserver(observer))
	return reducer.ComposeDefault(
		State{Requests: reducer.Collection[string, string]{}},
		reducer.Observe(name, adapters.Entity(requests, lens.UUIDKey()), observer),
	)
}

// Run folds every step of script through the replay reducer.
//
// A script without a Family uses DefaultFamily.
//
// An invalid step yields a *StepError. With cfg.FailFast it is returned
// immediately; otherwise it is recorded in Result.Skipped and the replay
// continues. Cancellation of ctx is checked between steps.
func Run(ctx context.Context, cfg Config, script *Script) (*Result, error) {
	if script == nil || len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	familyName := script.family()
	family := action.NewAsync[uuid.UUID, string, string](action.Type(familyName))
	root := Reducer(cfg.Name, family, observer)
	source := "replay." + cfg.Name
	start := time.Now()

	observer.OnEvent(ctx, observability.Event{
		Type:      EventReplayStart,
		Level:     observability.LevelInfo,
		Timestamp: start,
		Source:    source,
		Data: map[string]any{
			"family": familyName,
			"steps":  len(script.Steps),
		},
	})

	result := &Result{Snapshots: make([]State, 0, len(script.Steps))}
	var current *State

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("replay cancelled at step %d: %w", i, err)
		}

		act, err := step.Action(family)
		if err != nil {
			stepErr := &StepError{Index: i, Step: step, Err: err}
			if cfg.FailFast {
				return result, stepErr
			}
			result.Skipped = append(result.Skipped, stepErr)
			observer.OnEvent(ctx, observability.Event{
				Type:      EventReplaySkip,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    source,
				Data:      map[string]any{"index": i, "error": err.Error()},
			})
			continue
		}

		next := root(current, act)
		current = &next
		sig, _ := family.Match(act)
		key := sig.Params.String()
		result.Snapshots = append(result.Snapshots, next)
		result.Applied++

		observer.OnEvent(ctx, observability.Event{
			Type:      EventReplayStep,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    source,
			Data: map[string]any{
				"index":  i,
				"action": string(act.Type),
				"key":    key,
				"status": next.Request(key).Status().String(),
			},
		})
	}

	if current != nil {
		result.State = *current
	} else {
		result.State = root(nil, action.Action{})
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventReplayComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    source,
		Data: map[string]any{
			"applied":                 result.Applied,
			"skipped":                 len(result.Skipped),
			observability.DurationKey: time.Since(start),
		},
	})

	return result, nil
}

// SkippedErr joins the skipped step errors, or returns nil when none were
// skipped.
func (r *Result) SkippedErr() error {
	errs := make([]error, len(r.Skipped))
	for i, e := range r.Skipped {
		errs[i] = e
	}
	return errors.Join(errs...)
}
