// Package remote models the lifecycle of an asynchronously obtained value as a
// single immutable value.
//
// # Statuses
//
// A Data value is exactly one of:
//
//	NotStarted           no request has begun
//	InFlight             a request is pending and no prior result exists
//	Succeeded(value)     the latest completed request produced value
//	Failed(err)          the latest completed request produced err
//	Stale(previous)      a request is pending while a previous Succeeded or
//	                     Failed result is retained for display
//
// Stale never wraps NotStarted or InFlight.
//
// # Transitions
//
// Transition is the pure state machine driving a Data value:
//
//	current       start              success(v)     failure(e)
//	NotStarted    InFlight           Succeeded(v)   Failed(e)
//	InFlight      InFlight           Succeeded(v)   Failed(e)
//	Succeeded(x)  Stale(Succeeded)   Succeeded(v)   Failed(e)
//	Failed(x)     Stale(Failed)      Succeeded(v)   Failed(e)
//	Stale(p)      Stale(p)           Succeeded(v)   Failed(e)
//
// Completion always wins. A start keeps any previous result behind a Stale
// wrapper, and a start on an already stale value keeps the original snapshot.
package remote

import "fmt"

// Status identifies which variant a Data value holds.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
	StatusStale
)

// String returns the status name used in logs and JSON.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusStale:
		return "stale"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func parseStatus(name string) (Status, error) {
	for s := StatusNotStarted; s <= StatusStale; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown remote data status %q", name)
}

// Data is the remote-data value for a request producing V or failing with E.
//
// The zero value is NotStarted. Data values are never modified after
// construction; every transition returns a new value.
type Data[V, E any] struct {
	terminal Status
	stale    bool
	value    V
	err      E
}

// NotStarted returns the initial value.
func NotStarted[V, E any]() Data[V, E] {
	return Data[V, E]{}
}

// InFlight returns a pending value with no prior result.
func InFlight[V, E any]() Data[V, E] {
	return Data[V, E]{terminal: StatusInFlight}
}

// Succeeded returns a completed value holding v.
func Succeeded[V, E any](v V) Data[V, E] {
	return Data[V, E]{terminal: StatusSucceeded, value: v}
}

// Failed returns a completed value holding err.
func Failed[V, E any](err E) Data[V, E] {
	return Data[V, E]{terminal: StatusFailed, err: err}
}

// Stale wraps a previous Succeeded or Failed value while a refresh is in
// flight. Wrapping NotStarted or InFlight yields InFlight, and wrapping an
// already stale value returns it unchanged.
func Stale[V, E any](previous Data[V, E]) Data[V, E] {
	if !previous.isTerminal() {
		return InFlight[V, E]()
	}
	previous.stale = true
	return previous
}

// Status reports the variant held by d.
func (d Data[V, E]) Status() Status {
	if d.stale {
		return StatusStale
	}
	return d.terminal
}

// Value returns the succeeded value, including one retained behind Stale.
func (d Data[V, E]) Value() (V, bool) {
	if d.terminal == StatusSucceeded {
		return d.value, true
	}
	var zero V
	return zero, false
}

// Err returns the failure, including one retained behind Stale.
func (d Data[V, E]) Err() (E, bool) {
	if d.terminal == StatusFailed {
		return d.err, true
	}
	var zero E
	return zero, false
}

// Previous returns the result wrapped by a Stale value.
func (d Data[V, E]) Previous() (Data[V, E], bool) {
	if !d.stale {
		return Data[V, E]{}, false
	}
	d.stale = false
	return d, true
}

// IsPending reports whether a request is in flight (InFlight or Stale).
func (d Data[V, E]) IsPending() bool {
	return d.stale || d.terminal == StatusInFlight
}

// IsTerminal reports whether d is Succeeded or Failed.
func (d Data[V, E]) IsTerminal() bool {
	return !d.stale && d.isTerminal()
}

func (d Data[V, E]) isTerminal() bool {
	return d.terminal == StatusSucceeded || d.terminal == StatusFailed
}

func (d Data[V, E]) String() string {
	switch d.Status() {
	case StatusSucceeded:
		return fmt.Sprintf("Succeeded(%v)", d.value)
	case StatusFailed:
		return fmt.Sprintf("Failed(%v)", d.err)
	case StatusStale:
		prev, _ := d.Previous()
		return fmt.Sprintf("Stale(%s)", prev)
	case StatusInFlight:
		return "InFlight"
	default:
		return "NotStarted"
	}
}

// Cases holds one handler per status for Fold. Stale receives the wrapped
// previous value.
type Cases[V, E, T any] struct {
	NotStarted func() T
	InFlight   func() T
	Succeeded  func(V) T
	Failed     func(E) T
	Stale      func(Data[V, E]) T
}

// Fold dispatches d to the handler for its status. Every handler must be set.
func Fold[V, E, T any](d Data[V, E], c Cases[V, E, T]) T {
	switch d.Status() {
	case StatusInFlight:
		return c.InFlight()
	case StatusSucceeded:
		return c.Succeeded(d.value)
	case StatusFailed:
		return c.Failed(d.err)
	case StatusStale:
		prev, _ := d.Previous()
		return c.Stale(prev)
	default:
		return c.NotStarted()
	}
}
