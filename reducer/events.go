package reducer

import "github.com/tailored-agentic-units/datum/observability"

const (
	EventDispatch   observability.EventType = "reducer.dispatch"
	EventTransition observability.EventType = "reducer.transition"
)
