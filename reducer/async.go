package reducer

import (
	"context"
	"maps"
	"time"

	"github.com/tailored-agentic-units/datum/action"
	"github.com/tailored-agentic-units/datum/lens"
	"github.com/tailored-agentic-units/datum/observability"
	"github.com/tailored-agentic-units/datum/remote"
)

// Collection is a keyed set of remote-data values. Keys are the string form
// of a domain id; an absent key reads as NotStarted.
type Collection[R, E any] map[string]remote.Data[R, E]

// Lookup returns the value at key, or NotStarted when key is absent.
func (c Collection[R, E]) Lookup(key string) remote.Data[R, E] {
	if d, ok := c[key]; ok {
		return d
	}
	return remote.NotStarted[R, E]()
}

// Option configures the remote-data adapters.
type Option func(*options)

type options struct {
	observer observability.Observer
}

func newOptions(opts []Option) options {
	o := options{observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithObserver sends an EventTransition for every matched action.
func WithObserver(observer observability.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// eventOf converts a matched signal into a state machine event.
func eventOf[P, R, E any](sig action.Signal[P, R, E]) remote.Event[R, E] {
	switch sig.Phase {
	case action.PhaseSucceeded:
		return remote.Succeed[R, E](sig.Result)
	case action.PhaseFailed:
		return remote.Fail[R](sig.Error)
	default:
		return remote.Start[R, E]()
	}
}

func (o options) transitioned(family action.Type, phase action.Phase, from, to remote.Status, key string) {
	data := map[string]any{
		"family": string(family),
		"phase":  phase.String(),
		"from":   from.String(),
		"to":     to.String(),
	}
	if key != "" {
		data["key"] = key
	}

	o.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventTransition,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "reducer." + string(family),
		Data:      data,
	})
}

// Field returns a Reducer that runs remote.Transition on the value focused by
// l whenever family's start, success, or failure action arrives. The state is
// rebuilt through l.Set; the input state is not modified.
func Field[S, P, R, E any](family action.Async[P, R, E], l lens.Lens[S, remote.Data[R, E]], opts ...Option) Reducer[S] {
	o := newOptions(opts)

	return Case[S, action.Signal[P, R, E]](family, func(state S, sig action.Signal[P, R, E]) S {
		current := l.Get(state)
		next := remote.Transition(current, eventOf(sig))
		o.transitioned(family.Base(), sig.Phase, current.Status(), next.Status(), "")
		return l.Set(next, state)
	})
}

// Entity returns a Reducer that runs remote.Transition on one entry of the
// collection focused by coll. The entry's key is derived from the action's
// correlation parameter through key.Get. A new collection is written back
// with only that key changed.
func Entity[S, P, R, E any](family action.Async[P, R, E], coll lens.Lens[S, Collection[R, E]], key lens.Lens[P, string], opts ...Option) Reducer[S] {
	o := newOptions(opts)

	return Case[S, action.Signal[P, R, E]](family, func(state S, sig action.Signal[P, R, E]) S {
		k := key.Get(sig.Params)
		entries := coll.Get(state)
		current := entries.Lookup(k)
		next := remote.Transition(current, eventOf(sig))
		o.transitioned(family.Base(), sig.Phase, current.Status(), next.Status(), k)

		updated := make(Collection[R, E], len(entries)+1)
		maps.Copy(updated, entries)
		updated[k] = next
		return coll.Set(updated, state)
	})
}
