package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// errorEventWire is the serialized form of an ErrorEvent. The structured
// kind payload is flattened into Message; decoding therefore restores an
// Unknown kind that carries the original message text.
type errorEventWire struct {
	ID         string    `json:"id"`
	Kind       Code      `json:"kind"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Context    string    `json:"context"`
	RetryCount int       `json:"retry_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// MarshalJSON implements json.Marshaler.
func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorEventWire{
		ID:         e.ID,
		Kind:       e.Code(),
		Category:   e.Category(),
		Message:    e.Message(),
		Context:    e.Context,
		RetryCount: e.RetryCount,
		Timestamp:  e.Timestamp,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The restored Kind is always
// Unknown; use SerializedCode to read the original discriminant.
func (e *ErrorEvent) UnmarshalJSON(b []byte) error {
	var w errorEventWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.RetryCount < 0 {
		return fmt.Errorf("error event %s: retry_count must not be negative", w.ID)
	}
	if w.Timestamp.IsZero() {
		return errors.New("error event: timestamp is required")
	}
	*e = ErrorEvent{
		ID:         w.ID,
		Kind:       Unknown{Detail: w.Message},
		Context:    w.Context,
		RetryCount: w.RetryCount,
		Timestamp:  w.Timestamp,
	}
	return nil
}

// SerializedCode extracts the kind discriminant from a serialized event
// without decoding it.
func SerializedCode(b []byte) (Code, error) {
	var w struct {
		Kind Code `json:"kind"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return "", err
	}
	return w.Kind, nil
}
