package action

import "fmt"

// Phase identifies which of the three correlated async tokens an action
// belongs to.
type Phase int

const (
	PhaseStarted Phase = iota
	PhaseSucceeded
	PhaseFailed
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Type suffixes appended to an async family's base type.
const (
	SuffixStarted   = "_STARTED"
	SuffixSucceeded = "_DONE"
	SuffixFailed    = "_FAILED"
)

// Success is the payload of a succeeded action: the correlation parameter
// echoed back with the result.
type Success[P, R any] struct {
	Params P `json:"params"`
	Result R `json:"result"`
}

// Failure is the payload of a failed action.
type Failure[P, E any] struct {
	Params P `json:"params"`
	Error  E `json:"error"`
}

// Signal is one matched async action flattened into its phase and values.
// Result is set only for PhaseSucceeded, Error only for PhaseFailed.
type Signal[P, R, E any] struct {
	Phase  Phase
	Params P
	Result R
	Error  E
}

// Async is a family of three correlated tokens for one asynchronous
// operation taking P, producing R on success and E on failure.
type Async[P, R, E any] struct {
	base      Type
	started   Creator[P]
	succeeded Creator[Success[P, R]]
	failed    Creator[Failure[P, E]]
}

// NewAsync returns the async family rooted at base.
func NewAsync[P, R, E any](base Type) Async[P, R, E] {
	return Async[P, R, E]{
		base:      base,
		started:   NewCreator[P](base + SuffixStarted),
		succeeded: NewCreator[Success[P, R]](base + SuffixSucceeded),
		failed:    NewCreator[Failure[P, E]](base + SuffixFailed),
	}
}

// Base returns the type shared by the family.
func (f Async[P, R, E]) Base() Type { return f.base }

// Started returns the token for start actions.
func (f Async[P, R, E]) Started() Creator[P] { return f.started }

// Succeeded returns the token for success actions.
func (f Async[P, R, E]) Succeeded() Creator[Success[P, R]] { return f.succeeded }

// Failed returns the token for failure actions.
func (f Async[P, R, E]) Failed() Creator[Failure[P, E]] { return f.failed }

// Start builds the action announcing a request with correlation parameter params.
func (f Async[P, R, E]) Start(params P) Action {
	return f.started.New(params)
}

// Succeed builds the action completing the request identified by params.
func (f Async[P, R, E]) Succeed(params P, result R) Action {
	return f.succeeded.New(Success[P, R]{Params: params, Result: result})
}

// Fail builds the action failing the request identified by params.
func (f Async[P, R, E]) Fail(params P, err E) Action {
	return f.failed.New(Failure[P, E]{Params: params, Error: err})
}

// Match resolves a into a Signal if it belongs to any of the three tokens.
func (f Async[P, R, E]) Match(a Action) (Signal[P, R, E], bool) {
	if p, ok := f.started.Match(a); ok {
		return Signal[P, R, E]{Phase: PhaseStarted, Params: p}, true
	}
	if s, ok := f.succeeded.Match(a); ok {
		return Signal[P, R, E]{Phase: PhaseSucceeded, Params: s.Params, Result: s.Result}, true
	}
	if e, ok := f.failed.Match(a); ok {
		return Signal[P, R, E]{Phase: PhaseFailed, Params: e.Params, Error: e.Error}, true
	}
	return Signal[P, R, E]{}, false
}
