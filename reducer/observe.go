package reducer

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/datum/action"
	"github.com/tailored-agentic-units/datum/observability"
)

// Observe wraps r so every dispatch emits an EventDispatch carrying the
// action type and the time r took. The returned state is exactly r's.
func Observe[S any](name string, r Reducer[S], observer observability.Observer) Reducer[S] {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	source := "reducer." + name

	return func(state S, act action.Action) S {
		start := time.Now()
		next := r(state, act)

		observer.OnEvent(context.Background(), observability.Event{
			Type:      EventDispatch,
			Level:     observability.LevelVerbose,
			Timestamp: start,
			Source:    source,
			Data: map[string]any{
				"action":                  string(act.Type),
				observability.DurationKey: time.Since(start),
			},
		})
		return next
	}
}
