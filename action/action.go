// Package action defines the minimal action contract consumed by the reducer
// combinators: a type tag, an optional payload, and typed tokens that recognize
// their own actions.
//
// Asynchronous operations are modeled as a family of three correlated tokens
// (started, succeeded, failed) that share a base type:
//
//	fetch := action.NewAsync[int, User, string]("FETCH_USER")
//	a := fetch.Start(42)                 // Type "FETCH_USER_STARTED"
//	b := fetch.Succeed(42, user)         // Type "FETCH_USER_DONE"
//	c := fetch.Fail(42, "not found")     // Type "FETCH_USER_FAILED"
//
// Payloads travel as plain values. When actions or the remote data they
// produce are serialized, P, R, and E must be JSON-encodable types; an
// error interface is not.
//
// Tokens with colliding type tags are a programming error and are not
// detected at runtime.
package action

// Type is the identity tag carried by every action.
type Type string

// Action is the value delivered to reducers by the host dispatch loop.
type Action struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload,omitempty"`
}

// Matcher recognizes actions that belong to it and extracts their payload.
type Matcher[P any] interface {
	Match(a Action) (P, bool)
}

// Creator is a payload-bearing action token.
type Creator[P any] struct {
	typ Type
}

// NewCreator returns a token for actions of the given type carrying a P.
func NewCreator[P any](t Type) Creator[P] {
	return Creator[P]{typ: t}
}

// Type returns the tag this token creates and matches.
func (c Creator[P]) Type() Type {
	return c.typ
}

// New builds an action of this token's type carrying payload.
func (c Creator[P]) New(payload P) Action {
	return Action{Type: c.typ, Payload: payload}
}

// Match reports whether a was created by this token and returns its payload.
//
// An action with a matching tag but a payload of another type does not match.
// A nil payload matches as the zero value of P.
func (c Creator[P]) Match(a Action) (P, bool) {
	var zero P
	if a.Type != c.typ {
		return zero, false
	}
	if a.Payload == nil {
		return zero, true
	}
	p, ok := a.Payload.(P)
	if !ok {
		return zero, false
	}
	return p, true
}
