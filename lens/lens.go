// Package lens provides focusing accessors: a getter and a non-destructive
// setter for one part A of a larger structure S.
//
// A well-formed lens obeys two laws for every s and a:
//
//	Get(Set(a, s)) == a   // get-set
//	Set(Get(s), s) == s   // set-get
//
// Lenses built here are plain values holding two functions. Nothing is
// resolved by reflection.
package lens

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

var (
	// ErrGetSet reports a lens whose getter does not return what was set.
	ErrGetSet = errors.New("lens: get after set returned a different value")

	// ErrSetGet reports a lens that changes the structure when setting the
	// value it just read.
	ErrSetGet = errors.New("lens: set of current value changed the structure")
)

// Lens focuses on an A inside an S.
type Lens[S, A any] struct {
	Get func(s S) A
	Set func(a A, s S) S
}

// New builds a lens from a getter and setter pair.
func New[S, A any](get func(S) A, set func(A, S) S) Lens[S, A] {
	return Lens[S, A]{Get: get, Set: set}
}

// Modify applies f to the focused value and writes the result back.
func (l Lens[S, A]) Modify(s S, f func(A) A) S {
	return l.Set(f(l.Get(s)), s)
}

// Identity focuses on the whole structure.
func Identity[S any]() Lens[S, S] {
	return Lens[S, S]{
		Get: func(s S) S { return s },
		Set: func(a S, _ S) S { return a },
	}
}

// Compose focuses through outer and then inner.
func Compose[S, A, B any](outer Lens[S, A], inner Lens[A, B]) Lens[S, B] {
	return Lens[S, B]{
		Get: func(s S) B {
			return inner.Get(outer.Get(s))
		},
		Set: func(b B, s S) S {
			return outer.Set(inner.Set(b, outer.Get(s)), s)
		},
	}
}

// IntKey converts an integer id to and from its decimal string form for use
// as a collection key. Setting a key that does not parse leaves the id as is.
func IntKey() Lens[int, string] {
	return Lens[int, string]{
		Get: strconv.Itoa,
		Set: func(key string, id int) int {
			n, err := strconv.Atoi(key)
			if err != nil {
				return id
			}
			return n
		},
	}
}

// UUIDKey converts a UUID to and from its canonical string form.
// Setting a key that does not parse leaves the id as is.
func UUIDKey() Lens[uuid.UUID, string] {
	return Lens[uuid.UUID, string]{
		Get: func(id uuid.UUID) string { return id.String() },
		Set: func(key string, id uuid.UUID) uuid.UUID {
			parsed, err := uuid.Parse(key)
			if err != nil {
				return id
			}
			return parsed
		},
	}
}

// Verify checks both lens laws for one sample structure s and value a using
// the supplied equality functions.
func Verify[S, A any](l Lens[S, A], s S, a A, eqS func(S, S) bool, eqA func(A, A) bool) error {
	if got := l.Get(l.Set(a, s)); !eqA(got, a) {
		return fmt.Errorf("%w: set %v, got %v", ErrGetSet, a, got)
	}
	if got := l.Set(l.Get(s), s); !eqS(got, s) {
		return fmt.Errorf("%w: had %v, got %v", ErrSetGet, s, got)
	}
	return nil
}
