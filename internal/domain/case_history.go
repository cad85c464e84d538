package domain

import "time"

// HistoryActor identifies who performed a case action.
type HistoryActor string

const (
	ActorSystem HistoryActor = "System"
	ActorAgent  HistoryActor = "Agent"
	ActorUser   HistoryActor = "User"
)

// CaseHistoryEntry is an immutable audit trail entry. Entries are
// append-only per complaint; insertion order is chronological order.
type CaseHistoryEntry struct {
	ID          string
	ComplaintID string
	Action      string
	Date        time.Time
	Actor       HistoryActor
	Notes       *string
}
