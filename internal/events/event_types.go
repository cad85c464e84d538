package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintUpdated       EventType = "complaint_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string              `json:"id"`
	Type        EventType           `json:"type"`
	ComplaintID string              `json:"complaint_id"`
	Actor       domain.HistoryActor `json:"actor"`
	Timestamp   time.Time           `json:"timestamp"`
	Payload     interface{}         `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Type    domain.ComplaintType `json:"type"`
	Subject string               `json:"subject"`
	Email   string               `json:"email"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Notes     string                 `json:"notes,omitempty"`
}

// ComplaintUpdatedPayload payload.
type ComplaintUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}
