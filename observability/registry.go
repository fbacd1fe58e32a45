package observability

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	mutex sync.RWMutex
)

// GetObserver returns the observer registered under name. "noop" and "slog"
// are always available; config files refer to observers by these names.
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces the observer registered under name.
func RegisterObserver(name string, observer Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}

// ObserverNames lists the registered names in sorted order.
func ObserverNames() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(observers))
	for name := range observers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
