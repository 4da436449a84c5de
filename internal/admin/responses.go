package admin

import (
	"time"

	"finai/pkg/platform/audit"
)

// DecisionEventResponse is the HTTP response DTO for one audit event.
type DecisionEventResponse struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	Timestamp time.Time      `json:"timestamp"`
	Subject   string         `json:"subject"`
	Action    string         `json:"action"`
	Decision  string         `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	ClientIP  string         `json:"client_ip,omitempty"`
	Device    string         `json:"device,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// DecisionsListResponse wraps the list of events for HTTP response.
type DecisionsListResponse struct {
	Events []DecisionEventResponse `json:"events"`
	Total  int                     `json:"total"`
}

func toDecisionsList(events []audit.Event) DecisionsListResponse {
	out := make([]DecisionEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, DecisionEventResponse{
			ID:        e.ID.String(),
			Category:  string(e.Category),
			Timestamp: e.Timestamp,
			Subject:   e.Subject,
			Action:    e.Action,
			Decision:  e.Decision,
			Reason:    e.Reason,
			RequestID: e.RequestID,
			ClientIP:  e.ClientIP,
			Device:    e.Device,
			Payload:   e.Payload,
		})
	}
	return DecisionsListResponse{Events: out, Total: len(out)}
}
