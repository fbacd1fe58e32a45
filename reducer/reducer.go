package reducer

import "github.com/tailored-agentic-units/datum/action"

// Reducer maps the current state and one action to the next state. It must
// return state unchanged for actions it does not recognize.
type Reducer[S any] func(state S, act action.Action) S

// Root is the reducer handed to the store. A nil state means the store has
// no prior state yet.
type Root[S any] func(state *S, act action.Action) S

// Case returns a Reducer that applies fn when m recognizes the action.
func Case[S, P any](m action.Matcher[P], fn func(S, P) S) Reducer[S] {
	return func(state S, act action.Action) S {
		payload, ok := m.Match(act)
		if !ok {
			return state
		}
		return fn(state, payload)
	}
}

// Cases returns a Reducer that applies fn when any of ms recognizes the
// action. The first recognizing token supplies the payload; fn runs once.
func Cases[S, P any](ms []action.Matcher[P], fn func(S, P) S) Reducer[S] {
	return func(state S, act action.Action) S {
		for _, m := range ms {
			if payload, ok := m.Match(act); ok {
				return fn(state, payload)
			}
		}
		return state
	}
}

// Compose folds state through every reducer in order. Each reducer receives
// the previous one's result; all matching reducers run.
func Compose[S any](reducers ...Reducer[S]) Reducer[S] {
	return func(state S, act action.Action) S {
		for _, r := range reducers {
			state = r(state, act)
		}
		return state
	}
}

// ComposeDefault is Compose with def substituted for a nil state. def is
// never consulted when state is present.
func ComposeDefault[S any](def S, reducers ...Reducer[S]) Root[S] {
	composed := Compose(reducers...)
	return func(state *S, act action.Action) S {
		if state == nil {
			return composed(def, act)
		}
		return composed(*state, act)
	}
}
