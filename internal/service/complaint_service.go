package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/validation"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// DetailCache caches complaint-with-contact lookups. Implementations
// must degrade to misses on backend failure.
type DetailCache interface {
	Get(ctx context.Context, id string) (*domain.ComplaintWithContact, bool)
	Set(ctx context.Context, id string, record *domain.ComplaintWithContact)
	Invalidate(ctx context.Context, id string)
}

// ComplaintService coordinates intake, querying and the case lifecycle.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	history    repository.CaseHistoryRepository
	dispatcher events.Dispatcher
	cache      DetailCache
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the complaint service.
type Dependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.CaseHistoryRepository
	Dispatcher    events.Dispatcher
	Cache         DetailCache
	Logger        *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(deps Dependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     logger,
	}
}

// ListQuery describes list filters after HTTP parsing.
type ListQuery struct {
	Search   *string
	Status   *domain.ComplaintStatus
	Type     *domain.ComplaintType
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// Pagination describes a windowed view over the filtered collection.
type Pagination struct {
	Page         int `json:"page"`
	TotalPages   int `json:"totalPages"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
}

// ComplaintUpdate carries a partial update. Nil fields are untouched;
// Documents are appended, never replaced.
type ComplaintUpdate struct {
	Subject     *string
	Description *string
	Type        *string
	OtherType   *string
	Status      *string
	DateOfIssue *string
	Notes       *string
	Documents   []string
}

const registeredAction = "Complaint received and registered"

// Create validates a submission, stores the complaint with status Open
// and records the registration history entry.
func (s *ComplaintService) Create(ctx context.Context, sub validation.ComplaintSubmission) (*domain.ComplaintWithContact, error) {
	if err := validation.ValidateSubmission(sub); err != nil {
		return nil, err
	}

	complaint := domain.Complaint{
		Subject:     sub.Subject,
		Description: sub.Description,
		Type:        domain.ComplaintType(sub.ComplaintType),
		Status:      domain.StatusOpen,
		DateOfIssue: parseIssueDate(sub.DateOfIssue),
		Documents:   []string{},
	}
	if sub.OtherType != "" {
		otherType := sub.OtherType
		complaint.OtherType = &otherType
	}
	contact := domain.Contact{
		FirstName: sub.FirstName,
		LastName:  sub.LastName,
		Email:     sub.Email,
		ZipCode:   sub.ZipCode,
	}
	if sub.Phone != "" {
		phone := sub.Phone
		contact.Phone = &phone
	}

	if err := s.complaints.Create(ctx, &complaint, &contact); err != nil {
		return nil, err
	}
	if err := s.history.Append(ctx, &domain.CaseHistoryEntry{
		ComplaintID: complaint.ID,
		Action:      registeredAction,
		Actor:       domain.ActorSystem,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("complaint created",
		zap.String("complaint_id", complaint.ID),
		zap.String("type", string(complaint.Type)))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       domain.ActorUser,
		Payload: events.ComplaintCreatedPayload{
			Type:    complaint.Type,
			Subject: complaint.Subject,
			Email:   contact.Email,
		},
	})

	return &domain.ComplaintWithContact{Complaint: complaint, Contact: contact}, nil
}

// Get returns a complaint with its contact, serving cached copies when
// available.
func (s *ComplaintService) Get(ctx context.Context, id string) (*domain.ComplaintWithContact, error) {
	if s.cache != nil {
		if record, ok := s.cache.Get(ctx, id); ok {
			return record, nil
		}
	}
	record, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, id, record)
	}
	return record, nil
}

// History returns the ordered case log; unknown identifiers yield an
// empty slice rather than an error.
func (s *ComplaintService) History(ctx context.Context, id string) ([]domain.CaseHistoryEntry, error) {
	return s.history.ListByComplaint(ctx, id)
}

// List applies the query filters and returns a page of complaints plus
// pagination metadata. Filtering never mutates the store.
func (s *ComplaintService) List(ctx context.Context, query ListQuery) ([]domain.Complaint, Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 1
	}

	filter := repository.ComplaintFilter{
		Search:   query.Search,
		Status:   query.Status,
		Type:     query.Type,
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	complaints, total, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	return complaints, Pagination{
		Page:         page,
		TotalPages:   (total + limit - 1) / limit,
		ItemsPerPage: limit,
		TotalItems:   total,
	}, nil
}

// Update merges a partial update into an existing complaint, enforcing
// the status transition table, and appends exactly one history entry.
func (s *ComplaintService) Update(ctx context.Context, id string, upd ComplaintUpdate) (*domain.ComplaintWithContact, error) {
	record, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	complaint := record.Complaint

	fields := validateUpdate(complaint.Status, upd)
	if len(fields) > 0 {
		return nil, util.NewValidationError("Validation error", fields)
	}

	changed := []string{}
	oldStatus := complaint.Status
	if upd.Subject != nil && *upd.Subject != complaint.Subject {
		complaint.Subject = *upd.Subject
		changed = append(changed, "subject")
	}
	if upd.Description != nil && *upd.Description != complaint.Description {
		complaint.Description = *upd.Description
		changed = append(changed, "description")
	}
	if upd.Type != nil && domain.ComplaintType(*upd.Type) != complaint.Type {
		complaint.Type = domain.ComplaintType(*upd.Type)
		changed = append(changed, "type")
	}
	if upd.OtherType != nil {
		complaint.OtherType = upd.OtherType
		changed = append(changed, "otherType")
	}
	if upd.DateOfIssue != nil {
		complaint.DateOfIssue = parseIssueDate(*upd.DateOfIssue)
		changed = append(changed, "dateOfIssue")
	}
	if len(upd.Documents) > 0 {
		complaint.Documents = append(complaint.Documents, upd.Documents...)
		changed = append(changed, "documents")
	}
	statusChanged := upd.Status != nil && domain.ComplaintStatus(*upd.Status) != oldStatus
	if statusChanged {
		complaint.Status = domain.ComplaintStatus(*upd.Status)
		changed = append(changed, "status")
	}

	if err := s.complaints.Update(ctx, &complaint); err != nil {
		return nil, mapRepoError(err)
	}

	entry := domain.CaseHistoryEntry{
		ComplaintID: complaint.ID,
		Actor:       domain.ActorAgent,
		Notes:       upd.Notes,
	}
	switch {
	case statusChanged:
		entry.Action = fmt.Sprintf("Status changed to %s", complaint.Status)
	case len(changed) == 0 && upd.Notes != nil:
		entry.Action = "Note added"
	default:
		entry.Action = "Complaint details updated"
	}
	if err := s.history.Append(ctx, &entry); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, complaint.ID)
	}

	s.logger.Info("complaint updated",
		zap.String("complaint_id", complaint.ID),
		zap.Strings("changed", changed))
	if statusChanged {
		notes := ""
		if upd.Notes != nil {
			notes = *upd.Notes
		}
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintStatusChanged,
			ComplaintID: complaint.ID,
			Actor:       domain.ActorAgent,
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: complaint.Status,
				Notes:     notes,
			},
		})
	} else {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintUpdated,
			ComplaintID: complaint.ID,
			Actor:       domain.ActorAgent,
			Payload:     events.ComplaintUpdatedPayload{ChangedFields: changed},
		})
	}

	record.Complaint = complaint
	return record, nil
}

// Count reports how many complaints were ever created.
func (s *ComplaintService) Count(ctx context.Context) (int, error) {
	return s.complaints.Count(ctx)
}

var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.StatusOpen:       {domain.StatusInProgress, domain.StatusResolved, domain.StatusClosed},
	domain.StatusInProgress: {domain.StatusResolved, domain.StatusClosed},
	domain.StatusResolved:   {domain.StatusInProgress, domain.StatusClosed},
	domain.StatusClosed:     {},
}

func isValidTransition(current, next domain.ComplaintStatus) bool {
	if current == next {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func validateUpdate(current domain.ComplaintStatus, upd ComplaintUpdate) []util.FieldError {
	fields := []util.FieldError{}
	if upd.Subject != nil && strings.TrimSpace(*upd.Subject) == "" {
		fields = append(fields, util.FieldError{Field: "subject", Message: "Subject is required"})
	}
	if upd.Description != nil && strings.TrimSpace(*upd.Description) == "" {
		fields = append(fields, util.FieldError{Field: "description", Message: "Description is required"})
	}
	if upd.Type != nil && !domain.ValidType(domain.ComplaintType(*upd.Type)) {
		fields = append(fields, util.FieldError{Field: "type", Message: "Complaint type must be one of Billing, Insurance, Provider, Prescriptions, Other"})
	}
	if upd.Status != nil {
		next := domain.ComplaintStatus(*upd.Status)
		if !domain.ValidStatus(next) {
			fields = append(fields, util.FieldError{Field: "status", Message: "Status must be one of Open, In Progress, Resolved, Closed"})
		} else if !isValidTransition(current, next) {
			fields = append(fields, util.FieldError{
				Field:   "status",
				Message: fmt.Sprintf("Cannot change status from %s to %s", current, next),
			})
		}
	}
	return fields
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return util.NewNotFound("Complaint")
	}
	return err
}

var issueDateLayouts = []string{"2006-01-02", time.RFC3339, "01/02/2006"}

func parseIssueDate(val string) *time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return &t
		}
	}
	return nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
