package reducer

import (
	"github.com/tailored-agentic-units/datum/action"
	"github.com/tailored-agentic-units/datum/lens"
	"github.com/tailored-agentic-units/datum/remote"
)

// Adapters builds Field and Entity reducers for one bound async family.
// S is the state the reducers operate on.
type Adapters[S, P, R, E any] struct {
	family action.Async[P, R, E]
	opts   []Option
}

// For binds family and opts. Type parameter S must be given explicitly:
//
//	users := reducer.For[State](fetchUser)
//	r := users.Entity(usersLens, lens.IntKey())
func For[S, P, R, E any](family action.Async[P, R, E], opts ...Option) Adapters[S, P, R, E] {
	return Adapters[S, P, R, E]{family: family, opts: opts}
}

// Family returns the bound async family.
func (a Adapters[S, P, R, E]) Family() action.Async[P, R, E] {
	return a.family
}

// Field is reducer.Field for the bound family.
func (a Adapters[S, P, R, E]) Field(l lens.Lens[S, remote.Data[R, E]]) Reducer[S] {
	return Field(a.family, l, a.opts...)
}

// Entity is reducer.Entity for the bound family.
func (a Adapters[S, P, R, E]) Entity(coll lens.Lens[S, Collection[R, E]], key lens.Lens[P, string]) Reducer[S] {
	return Entity(a.family, coll, key, a.opts...)
}
