// Package reducer builds reducers for a unidirectional-data-flow store out of
// small action-matching pieces, and adapts the remote-data state machine to
// fields and keyed collections of a larger state.
//
// # Matching
//
// Case and Cases turn a transform into a Reducer that fires only for actions
// recognized by its tokens. Any other action returns the state unchanged,
// which is the normal path rather than an error:
//
//	add := reducer.Case(other, func(s int, n int) int { return s + n })
//
// # Composition
//
// Compose folds state through every reducer in registration order. It is a
// fold, not first-match-wins: when several reducers recognize the same
// action, all of them run, each seeing the previous one's output.
//
//	r := reducer.Compose(add, addBoth)
//	r(0, other.New(1)) // 2, both fired
//
// ComposeDefault returns a Root that substitutes a default when the store
// has no prior state (a nil pointer).
//
// # Remote data
//
// Field and Entity run remote.Transition for one action.Async family:
//
//	fetch := action.NewAsync[int, User, string]("FETCH_USER")
//	r := reducer.Field(fetch, userLens)                           // one field
//	rs := reducer.Entity(fetch, usersLens, lens.IntKey())         // map keyed by id
//
// For binds a family once so either adapter can be built from it.
//
// Reducers never mutate their input and never return errors. Observers
// attached with WithObserver or Observe see events but cannot change state.
package reducer
