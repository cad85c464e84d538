package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrNotFound is returned when a complaint identifier is unknown.
var ErrNotFound = errors.New("complaint not found")

// ComplaintFilter captures list query parameters. Nil pointers mean
// the dimension is not filtered.
type ComplaintFilter struct {
	Search   *string
	Status   *domain.ComplaintStatus
	Type     *domain.ComplaintType
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// ComplaintRepository encapsulates complaint persistence. Create
// assigns the CMP identifier and both timestamps; the contact record
// is stored atomically with its complaint.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.ComplaintWithContact, error)
	Update(ctx context.Context, complaint *domain.Complaint) error
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error)
	Count(ctx context.Context) (int, error)
}

// CaseHistoryRepository encapsulates the append-only case log. Listing
// an unknown complaint yields an empty slice, not an error.
type CaseHistoryRepository interface {
	Append(ctx context.Context, entry *domain.CaseHistoryEntry) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.CaseHistoryEntry, error)
}
