// Package stream moves audit events across a message broker. The wire
// format is JSON keyed by event ID so consumers can write idempotently.
package stream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "finai/pkg/platform/audit"
)

type wireEvent struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	Timestamp string         `json:"timestamp"`
	Subject   string         `json:"subject,omitempty"`
	Action    string         `json:"action"`
	Decision  string         `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	ClientIP  string         `json:"client_ip,omitempty"`
	Device    string         `json:"device,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Encode serializes an event for the broker.
func Encode(e audit.Event) ([]byte, error) {
	data, err := json.Marshal(wireEvent{
		ID:        e.ID.String(),
		Category:  string(e.Category),
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Subject:   e.Subject,
		Action:    e.Action,
		Decision:  e.Decision,
		Reason:    e.Reason,
		RequestID: e.RequestID,
		ClientIP:  e.ClientIP,
		Device:    e.Device,
		Payload:   e.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encode audit event: %w", err)
	}
	return data, nil
}

// Decode parses a broker payload. The event ID and action are required.
func Decode(data []byte) (audit.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event: %w", err)
	}
	eventID, err := uuid.Parse(w.ID)
	if err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event id: %w", err)
	}
	if w.Action == "" {
		return audit.Event{}, fmt.Errorf("decode audit event %s: missing action", eventID)
	}

	ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
	if err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event timestamp: %w", err)
	}

	return audit.Event{
		ID:        eventID,
		Category:  audit.EventCategory(w.Category),
		Timestamp: ts,
		Subject:   w.Subject,
		Action:    w.Action,
		Decision:  w.Decision,
		Reason:    w.Reason,
		RequestID: w.RequestID,
		ClientIP:  w.ClientIP,
		Device:    w.Device,
		Payload:   w.Payload,
	}, nil
}
