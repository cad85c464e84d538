package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/seed"
)

func newComplaint(subject string) (*domain.Complaint, *domain.Contact) {
	return &domain.Complaint{
			Subject:     subject,
			Description: "description of " + subject,
			Type:        domain.TypeBilling,
			Status:      domain.StatusOpen,
		}, &domain.Contact{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane.doe@example.com",
			ZipCode:   "12345",
		}
}

// TestMemoryStoreCreate_AssignsSequentialIDs verifies identifier format
// and strict monotonic allocation.
func TestMemoryStoreCreate_AssignsSequentialIDs(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	seen := make(map[string]bool)
	last := 0
	for i := 0; i < 1000; i++ {
		complaint, contact := newComplaint(fmt.Sprintf("subject %d", i))
		require.NoError(t, store.Create(ctx, complaint, contact))
		assert.Regexp(t, `^CMP-\d{3,}$`, complaint.ID)
		assert.False(t, seen[complaint.ID], "identifier %s reissued", complaint.ID)

		var seq int
		_, err := fmt.Sscanf(complaint.ID, "CMP-%d", &seq)
		require.NoError(t, err)
		assert.Greater(t, seq, last)

		seen[complaint.ID] = true
		last = seq
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, count)
}

// TestMemoryStoreCreate_ContinuesAfterSeed verifies the counter starts
// past the highest seeded sequence.
func TestMemoryStoreCreate_ContinuesAfterSeed(t *testing.T) {
	store := repository.NewMemoryStore()
	seed.Load(store)

	complaint, contact := newComplaint("fresh")
	require.NoError(t, store.Create(context.Background(), complaint, contact))
	assert.Equal(t, "CMP-004", complaint.ID)
}

// TestMemoryStoreGetByID_RoundTrip verifies stored data comes back
// field for field with its contact.
func TestMemoryStoreGetByID_RoundTrip(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	complaint, contact := newComplaint("round trip")
	require.NoError(t, store.Create(ctx, complaint, contact))

	record, err := store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, complaint.Subject, record.Subject)
	assert.Equal(t, complaint.Description, record.Description)
	assert.Equal(t, complaint.Type, record.Type)
	assert.Equal(t, contact.Email, record.Contact.Email)
	assert.Equal(t, complaint.ID, record.Contact.ComplaintID)
	assert.False(t, record.DateSubmitted.IsZero())
}

// TestMemoryStoreGetByID_Unknown verifies the not-found sentinel.
func TestMemoryStoreGetByID_Unknown(t *testing.T) {
	store := repository.NewMemoryStore()
	_, err := store.GetByID(context.Background(), "CMP-999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestMemoryStoreUpdate verifies LastUpdated advances while
// DateSubmitted stays immutable.
func TestMemoryStoreUpdate(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	complaint, contact := newComplaint("update me")
	require.NoError(t, store.Create(ctx, complaint, contact))
	submitted := complaint.DateSubmitted
	previous := complaint.LastUpdated

	time.Sleep(time.Millisecond)
	complaint.Status = domain.StatusClosed
	require.NoError(t, store.Update(ctx, complaint))

	record, err := store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, record.Status)
	assert.Equal(t, submitted, record.DateSubmitted)
	assert.True(t, record.LastUpdated.After(previous))
}

// TestMemoryStoreUpdate_Unknown verifies updates to unknown ids fail.
func TestMemoryStoreUpdate_Unknown(t *testing.T) {
	store := repository.NewMemoryStore()
	err := store.Update(context.Background(), &domain.Complaint{ID: "CMP-404"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestMemoryStoreListWithFilter covers the filter dimensions against
// the three-record seed set.
func TestMemoryStoreListWithFilter(t *testing.T) {
	store := repository.NewMemoryStore()
	seed.Load(store)
	ctx := context.Background()

	t.Run("search by identifier", func(t *testing.T) {
		search := "CMP-002"
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Search: &search, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, complaints, 1)
		assert.Equal(t, "CMP-002", complaints[0].ID)
	})

	t.Run("search is case-insensitive across fields", func(t *testing.T) {
		search := "payment"
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Search: &search, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, complaints, 1)
		assert.Equal(t, "CMP-001", complaints[0].ID)
	})

	t.Run("status exact match", func(t *testing.T) {
		status := domain.StatusResolved
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Status: &status, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, complaints, 1)
		assert.Equal(t, "CMP-002", complaints[0].ID)
	})

	t.Run("type exact match", func(t *testing.T) {
		complaintType := domain.TypeProvider
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Type: &complaintType, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, complaints, 1)
		assert.Equal(t, "CMP-003", complaints[0].ID)
	})

	t.Run("date range on dateSubmitted", func(t *testing.T) {
		from := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{DateFrom: &from, DateTo: &to, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, complaints, 1)
		assert.Equal(t, "CMP-002", complaints[0].ID)
	})

	t.Run("page beyond last returns empty slice", func(t *testing.T) {
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Limit: 10, Offset: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, complaints)
	})

	t.Run("no filters preserves insertion order", func(t *testing.T) {
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, complaints, 3)
		assert.Equal(t, "CMP-001", complaints[0].ID)
		assert.Equal(t, "CMP-002", complaints[1].ID)
		assert.Equal(t, "CMP-003", complaints[2].ID)
	})

	t.Run("zero limit clamped to one", func(t *testing.T) {
		complaints, total, err := store.ListWithFilter(ctx, repository.ComplaintFilter{Limit: 0})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, complaints, 1)
	})
}

// TestMemoryStoreHistory verifies append-only ordering and the
// CH-<seq>-<n> identifier scheme.
func TestMemoryStoreHistory(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	complaint, contact := newComplaint("with history")
	require.NoError(t, store.Create(ctx, complaint, contact))

	first := &domain.CaseHistoryEntry{ComplaintID: complaint.ID, Action: "Complaint received and registered", Actor: domain.ActorSystem}
	require.NoError(t, store.Append(ctx, first))
	second := &domain.CaseHistoryEntry{ComplaintID: complaint.ID, Action: "Status changed to In Progress", Actor: domain.ActorAgent}
	require.NoError(t, store.Append(ctx, second))

	assert.Equal(t, "CH-001-1", first.ID)
	assert.Equal(t, "CH-001-2", second.ID)
	assert.False(t, first.Date.IsZero())

	entries, err := store.ListByComplaint(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.Action, entries[0].Action)
	assert.Equal(t, second.Action, entries[1].Action)
}

// TestMemoryStoreHistory_UnknownComplaint verifies an empty slice, not
// an error.
func TestMemoryStoreHistory_UnknownComplaint(t *testing.T) {
	store := repository.NewMemoryStore()
	entries, err := store.ListByComplaint(context.Background(), "CMP-404")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
