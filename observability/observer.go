// Package observability carries events out of reducers and replays to logs
// and metrics. Level values follow OpenTelemetry SeverityNumber ranges, so an
// Event can be forwarded to an OTel collector without translation.
//
// Reducers stay pure with respect to state: observers only see what happened,
// they never influence the returned state.
package observability

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Level is an event severity in OTel SeverityNumber units.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps l onto the closest slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ParseLevel accepts the OTel severity text ("DEBUG", "INFO", "WARN",
// "ERROR") in any case and returns the matching Level.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToUpper(name) {
	case "DEBUG", "VERBOSE":
		return LevelVerbose, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarning, true
	case "ERROR":
		return LevelError, true
	default:
		return 0, false
	}
}

// EventType names an event. Each package declares its own constants, for
// example "reducer.dispatch" or "replay.step".
type EventType string

// Event is one observation. Fields line up with an OTel LogRecord:
// Type→EventName, Level→SeverityNumber, Source→InstrumentationScope,
// Data→Attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
