package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/seed"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/validation"
	"github.com/spec-kit/complaint-service/pkg/util"
)

func newSeededService(t *testing.T) (*service.ComplaintService, events.Dispatcher) {
	t.Helper()
	store := repository.NewMemoryStore()
	seed.Load(store)
	dispatcher := events.NewInMemoryDispatcher()
	svc := service.NewComplaintService(service.Dependencies{
		ComplaintRepo: store,
		HistoryRepo:   store,
		Dispatcher:    dispatcher,
	})
	return svc, dispatcher
}

func validSubmission() validation.ComplaintSubmission {
	return validation.ComplaintSubmission{
		ComplaintType: "Prescriptions",
		Subject:       "Wrong medication dispensed",
		Description:   "The pharmacy filled a different dosage than prescribed.",
		DateOfIssue:   "2023-04-01",
		FirstName:     "Alice",
		LastName:      "Nguyen",
		Email:         "alice.nguyen@example.com",
		Phone:         "5550001111",
		ZipCode:       "90210",
	}
}

func domainErr(t *testing.T, err error) *util.DomainError {
	t.Helper()
	var de *util.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de
}

// TestCreate_Valid verifies a valid submission yields an Open complaint
// with a registration history entry.
func TestCreate_Valid(t *testing.T) {
	svc, dispatcher := newSeededService(t)
	ctx := context.Background()

	var created []events.Event
	dispatcher.Subscribe(events.EventComplaintCreated, func(_ context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})

	record, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)

	assert.Regexp(t, `^CMP-\d{3,}$`, record.ID)
	assert.Equal(t, "CMP-004", record.ID)
	assert.Equal(t, domain.StatusOpen, record.Status)
	assert.Equal(t, domain.TypePrescriptions, record.Type)
	assert.False(t, record.DateSubmitted.IsZero())
	require.NotNil(t, record.DateOfIssue)
	assert.Equal(t, "alice.nguyen@example.com", record.Contact.Email)

	history, err := svc.History(ctx, record.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, "Complaint received and registered", history[0].Action)
	assert.Equal(t, domain.ActorSystem, history[0].Actor)

	require.Len(t, created, 1)
	assert.Equal(t, record.ID, created[0].ComplaintID)
}

// TestCreate_Invalid verifies the aggregate validation error reaches
// the caller untouched.
func TestCreate_Invalid(t *testing.T) {
	svc, _ := newSeededService(t)

	sub := validSubmission()
	sub.Subject = ""
	sub.ZipCode = "abc"

	_, err := svc.Create(context.Background(), sub)
	de := domainErr(t, err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Len(t, de.Fields, 2)
}

// TestCreate_RoundTrip verifies create-then-get returns identical data.
func TestCreate_RoundTrip(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Complaint, fetched.Complaint)
	assert.Equal(t, created.Contact, fetched.Contact)
}

// TestGet_Unknown verifies a 404-mapped error.
func TestGet_Unknown(t *testing.T) {
	svc, _ := newSeededService(t)
	_, err := svc.Get(context.Background(), "CMP-999")
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

// TestList_SeedPagination checks the pagination metadata contract on
// the three-record seed set.
func TestList_SeedPagination(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	complaints, pagination, err := svc.List(ctx, service.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, complaints, 3)
	assert.Equal(t, service.Pagination{Page: 1, TotalPages: 1, ItemsPerPage: 10, TotalItems: 3}, pagination)

	complaints, pagination, err = svc.List(ctx, service.ListQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, complaints)
	assert.Equal(t, 1, pagination.TotalPages)

	complaints, pagination, err = svc.List(ctx, service.ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, 2, pagination.TotalPages)
}

// TestList_NoMatches verifies zero items yield zero total pages.
func TestList_NoMatches(t *testing.T) {
	svc, _ := newSeededService(t)

	search := "nonexistent"
	complaints, pagination, err := svc.List(context.Background(), service.ListQuery{Search: &search, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, complaints)
	assert.Equal(t, service.Pagination{Page: 1, TotalPages: 0, ItemsPerPage: 10, TotalItems: 0}, pagination)
}

// TestList_Filters exercises search and status filtering through the service.
func TestList_Filters(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	search := "CMP-002"
	complaints, _, err := svc.List(ctx, service.ListQuery{Search: &search, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, "CMP-002", complaints[0].ID)

	status := domain.StatusResolved
	complaints, _, err = svc.List(ctx, service.ListQuery{Status: &status, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, domain.StatusResolved, complaints[0].Status)
}

// TestList_ClampsPageAndLimit verifies defensive clamping.
func TestList_ClampsPageAndLimit(t *testing.T) {
	svc, _ := newSeededService(t)

	complaints, pagination, err := svc.List(context.Background(), service.ListQuery{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 1, pagination.ItemsPerPage)
	assert.Equal(t, 3, pagination.TotalPages)
}

// TestUpdate_StatusTransition verifies an allowed transition updates
// status, advances lastUpdated and appends one history entry.
func TestUpdate_StatusTransition(t *testing.T) {
	svc, dispatcher := newSeededService(t)
	ctx := context.Background()

	var statusEvents []events.Event
	dispatcher.Subscribe(events.EventComplaintStatusChanged, func(_ context.Context, e events.Event) error {
		statusEvents = append(statusEvents, e)
		return nil
	})

	before, err := svc.Get(ctx, "CMP-003")
	require.NoError(t, err)
	historyBefore, err := svc.History(ctx, "CMP-003")
	require.NoError(t, err)

	status := string(domain.StatusClosed)
	notes := "Resolved out of band."
	time.Sleep(time.Millisecond)
	updated, err := svc.Update(ctx, "CMP-003", service.ComplaintUpdate{Status: &status, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClosed, updated.Status)
	assert.True(t, updated.LastUpdated.After(before.LastUpdated))
	assert.Equal(t, before.DateSubmitted, updated.DateSubmitted)

	historyAfter, err := svc.History(ctx, "CMP-003")
	require.NoError(t, err)
	require.Len(t, historyAfter, len(historyBefore)+1)
	last := historyAfter[len(historyAfter)-1]
	assert.Equal(t, "Status changed to Closed", last.Action)
	assert.Equal(t, domain.ActorAgent, last.Actor)
	require.NotNil(t, last.Notes)
	assert.Equal(t, notes, *last.Notes)

	require.Len(t, statusEvents, 1)
}

// TestUpdate_InvalidTransition verifies the transition table rejects
// moves out of Closed.
func TestUpdate_InvalidTransition(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	status := string(domain.StatusClosed)
	_, err := svc.Update(ctx, "CMP-003", service.ComplaintUpdate{Status: &status})
	require.NoError(t, err)

	reopen := string(domain.StatusOpen)
	_, err = svc.Update(ctx, "CMP-003", service.ComplaintUpdate{Status: &reopen})
	de := domainErr(t, err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	require.Len(t, de.Fields, 1)
	assert.Equal(t, "status", de.Fields[0].Field)
	assert.Equal(t, "Cannot change status from Closed to Open", de.Fields[0].Message)
}

// TestUpdate_UnknownStatus verifies unrecognized states are rejected,
// not coerced.
func TestUpdate_UnknownStatus(t *testing.T) {
	svc, _ := newSeededService(t)

	status := "Escalated"
	_, err := svc.Update(context.Background(), "CMP-003", service.ComplaintUpdate{Status: &status})
	de := domainErr(t, err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	require.Len(t, de.Fields, 1)
	assert.Equal(t, "status", de.Fields[0].Field)
}

// TestUpdate_Unknown verifies not-found is distinct from validation failure.
func TestUpdate_Unknown(t *testing.T) {
	svc, _ := newSeededService(t)

	status := string(domain.StatusClosed)
	_, err := svc.Update(context.Background(), "unknown-id", service.ComplaintUpdate{Status: &status})
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

// TestUpdate_NoteOnly verifies a notes-only update appends a "Note
// added" entry and publishes a generic update event.
func TestUpdate_NoteOnly(t *testing.T) {
	svc, dispatcher := newSeededService(t)
	ctx := context.Background()

	var updatedEvents []events.Event
	dispatcher.Subscribe(events.EventComplaintUpdated, func(_ context.Context, e events.Event) error {
		updatedEvents = append(updatedEvents, e)
		return nil
	})

	notes := "Caller confirmed address."
	_, err := svc.Update(ctx, "CMP-001", service.ComplaintUpdate{Notes: &notes})
	require.NoError(t, err)

	history, err := svc.History(ctx, "CMP-001")
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Equal(t, "Note added", last.Action)

	require.Len(t, updatedEvents, 1)
}

// TestUpdate_AppendsDocuments verifies documents are append-only.
func TestUpdate_AppendsDocuments(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "CMP-003", service.ComplaintUpdate{Documents: []string{"Follow_Up.pdf"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Provider_Bill.pdf", "Follow_Up.pdf"}, updated.Documents)
}

// TestUpdate_EmptySubjectRejected verifies merged fields still obey the
// schema.
func TestUpdate_EmptySubjectRejected(t *testing.T) {
	svc, _ := newSeededService(t)

	subject := "   "
	_, err := svc.Update(context.Background(), "CMP-001", service.ComplaintUpdate{Subject: &subject})
	de := domainErr(t, err)
	require.Len(t, de.Fields, 1)
	assert.Equal(t, "subject", de.Fields[0].Field)
	assert.Equal(t, "Subject is required", de.Fields[0].Message)
}

// TestCount reports complaints ever created, seed included.
func TestCount(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = svc.Create(ctx, validSubmission())
	require.NoError(t, err)

	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
