package remote

// Kind identifies a lifecycle event.
type Kind int

const (
	KindStart Kind = iota
	KindSuccess
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Event is one lifecycle signal with its attached value or error.
type Event[V, E any] struct {
	Kind  Kind
	Value V
	Err   E
}

// Start announces that a request began.
func Start[V, E any]() Event[V, E] {
	return Event[V, E]{Kind: KindStart}
}

// Succeed announces that a request completed with v.
func Succeed[V, E any](v V) Event[V, E] {
	return Event[V, E]{Kind: KindSuccess, Value: v}
}

// Fail announces that a request completed with err.
func Fail[V, E any](err E) Event[V, E] {
	return Event[V, E]{Kind: KindFailure, Err: err}
}

// Transition returns the value that follows current after event.
func Transition[V, E any](current Data[V, E], event Event[V, E]) Data[V, E] {
	switch event.Kind {
	case KindSuccess:
		return Succeeded[V, E](event.Value)
	case KindFailure:
		return Failed[V](event.Err)
	case KindStart:
		return Stale(current)
	default:
		return current
	}
}
