package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "Open"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
)

// ComplaintType enumerates the canonical complaint categories.
type ComplaintType string

const (
	TypeBilling       ComplaintType = "Billing"
	TypeInsurance     ComplaintType = "Insurance"
	TypeProvider      ComplaintType = "Provider"
	TypePrescriptions ComplaintType = "Prescriptions"
	TypeOther         ComplaintType = "Other"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ValidType reports whether t is a known complaint category.
func ValidType(t ComplaintType) bool {
	switch t {
	case TypeBilling, TypeInsurance, TypeProvider, TypePrescriptions, TypeOther:
		return true
	}
	return false
}

// Complaint is the aggregate for filed complaints. ID carries the
// human-readable CMP-NNN code and is immutable after creation.
type Complaint struct {
	ID            string
	Subject       string
	Description   string
	Type          ComplaintType
	OtherType     *string
	Status        ComplaintStatus
	DateSubmitted time.Time
	DateOfIssue   *time.Time
	LastUpdated   time.Time
	Documents     []string
}

// ComplaintWithContact bundles a complaint with its owning contact record.
type ComplaintWithContact struct {
	Complaint
	Contact Contact
}
