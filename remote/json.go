package remote

import (
	"encoding/json"
	"fmt"
)

type wireData[V, E any] struct {
	Status   string           `json:"status"`
	Value    *V               `json:"value,omitempty"`
	Error    *E               `json:"error,omitempty"`
	Previous *wireData[V, E] `json:"previous,omitempty"`
}

// rawData defers decoding so a present-but-null value is told apart from a
// missing one.
type rawData struct {
	Status   string          `json:"status"`
	Value    json.RawMessage `json:"value"`
	Error    json.RawMessage `json:"error"`
	Previous json.RawMessage `json:"previous"`
}

func (d Data[V, E]) wire() wireData[V, E] {
	w := wireData[V, E]{Status: d.Status().String()}
	switch d.Status() {
	case StatusSucceeded:
		v := d.value
		w.Value = &v
	case StatusFailed:
		e := d.err
		w.Error = &e
	case StatusStale:
		prev, _ := d.Previous()
		pw := prev.wire()
		w.Previous = &pw
	}
	return w
}

func decode[V, E any](b []byte) (Data[V, E], error) {
	var raw rawData
	if err := json.Unmarshal(b, &raw); err != nil {
		return Data[V, E]{}, fmt.Errorf("failed to parse remote data: %w", err)
	}

	status, err := parseStatus(raw.Status)
	if err != nil {
		return Data[V, E]{}, err
	}

	switch status {
	case StatusInFlight:
		return InFlight[V, E](), nil
	case StatusSucceeded:
		if len(raw.Value) == 0 {
			return Data[V, E]{}, fmt.Errorf("succeeded remote data missing value")
		}
		var v V
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return Data[V, E]{}, fmt.Errorf("failed to parse succeeded value: %w", err)
		}
		return Succeeded[V, E](v), nil
	case StatusFailed:
		if len(raw.Error) == 0 {
			return Data[V, E]{}, fmt.Errorf("failed remote data missing error")
		}
		var e E
		if err := json.Unmarshal(raw.Error, &e); err != nil {
			return Data[V, E]{}, fmt.Errorf("failed to parse failure error: %w", err)
		}
		return Failed[V](e), nil
	case StatusStale:
		if len(raw.Previous) == 0 {
			return Data[V, E]{}, fmt.Errorf("stale remote data missing previous value")
		}
		prev, err := decode[V, E](raw.Previous)
		if err != nil {
			return Data[V, E]{}, fmt.Errorf("stale previous: %w", err)
		}
		if !prev.IsTerminal() {
			return Data[V, E]{}, fmt.Errorf("stale remote data must wrap succeeded or failed, got %s", prev.Status())
		}
		return Stale(prev), nil
	default:
		return NotStarted[V, E](), nil
	}
}

// MarshalJSON encodes d as {"status": ..., "value"|"error"|"previous": ...}.
// V and E must themselves be JSON-encodable; an error interface such as
// error encodes as {} and does not decode back.
func (d Data[V, E]) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON decodes the form written by MarshalJSON. A present "value"
// or "error" key holding null decodes to the zero V or E.
func (d *Data[V, E]) UnmarshalJSON(b []byte) error {
	decoded, err := decode[V, E](b)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}
