package replay

import "github.com/tailored-agentic-units/datum/observability"

const (
	EventReplayStart    observability.EventType = "replay.start"
	EventReplayStep     observability.EventType = "replay.step"
	EventReplaySkip     observability.EventType = "replay.skip"
	EventReplayComplete observability.EventType = "replay.complete"
)
