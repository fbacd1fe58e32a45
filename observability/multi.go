package observability

import "context"

// MultiObserver forwards each event to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver returns a MultiObserver over the non-nil observers given.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	kept := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			kept = append(kept, obs)
		}
	}
	return &MultiObserver{observers: kept}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// Len returns the number of wrapped observers.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}
