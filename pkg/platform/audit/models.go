package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance, such as
	// lending decisions. These require durable storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity useful for debugging and
	// operational visibility. These can be sampled or kept for a shorter time.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	// Subject identifies what the event is about (application ID, chat ID,
	// or "anonymous" for ad-hoc evaluations).
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
	ClientIP  string
	Device    string
	// Payload carries action-specific details such as the risk score.
	Payload map[string]any
}

type AuditEvent string

const (
	EventDecisionMade       AuditEvent = "decision_made"
	EventApplicationCreated AuditEvent = "application_created"
	EventChatMessage        AuditEvent = "chat_message"
	EventDocumentUploaded   AuditEvent = "document_uploaded"
)

var eventCategories = map[AuditEvent]EventCategory{
	// Lending decisions are compliance records.
	EventDecisionMade:       CategoryCompliance,
	EventApplicationCreated: CategoryCompliance,

	EventChatMessage:      CategoryOperations,
	EventDocumentUploaded: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	// ListRecent returns up to limit events, most recent first.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
