package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// MemoryStore keeps complaints, contacts and case histories in process
// memory. One mutex guards every mutation so identifier allocation and
// history appends stay serialized under concurrent requests.
type MemoryStore struct {
	mu         sync.RWMutex
	complaints map[string]domain.Complaint
	contacts   map[string]domain.Contact
	history    map[string][]domain.CaseHistoryEntry
	order      []string
	seq        int
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		complaints: make(map[string]domain.Complaint),
		contacts:   make(map[string]domain.Contact),
		history:    make(map[string][]domain.CaseHistoryEntry),
	}
}

// Create assigns the next CMP identifier and stores the complaint with
// its contact. The sequence counter only moves forward, so identifiers
// are never reissued.
func (s *MemoryStore) Create(ctx context.Context, complaint *domain.Complaint, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := time.Now()
	complaint.ID = fmt.Sprintf("CMP-%03d", s.seq)
	complaint.DateSubmitted = now
	complaint.LastUpdated = now
	if complaint.Documents == nil {
		complaint.Documents = []string{}
	}
	contact.ComplaintID = complaint.ID

	s.complaints[complaint.ID] = *complaint
	s.contacts[complaint.ID] = *contact
	s.order = append(s.order, complaint.ID)
	return nil
}

// GetByID returns the complaint and its contact, or ErrNotFound.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*domain.ComplaintWithContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	complaint, ok := s.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := &domain.ComplaintWithContact{
		Complaint: cloneComplaint(complaint),
		Contact:   s.contacts[id],
	}
	return result, nil
}

// Update replaces the stored record and refreshes LastUpdated.
func (s *MemoryStore) Update(ctx context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.complaints[complaint.ID]
	if !ok {
		return ErrNotFound
	}
	complaint.DateSubmitted = existing.DateSubmitted
	complaint.LastUpdated = time.Now()
	s.complaints[complaint.ID] = *complaint
	return nil
}

// ListWithFilter applies search, exact-match and date-range filters in
// insertion order, then slices out the requested page. The returned
// total counts matches before slicing.
func (s *MemoryStore) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]domain.Complaint, 0, len(s.order))
	for _, id := range s.order {
		complaint := s.complaints[id]
		if !matchesFilter(complaint, filter) {
			continue
		}
		filtered = append(filtered, cloneComplaint(complaint))
	}

	total := len(filtered)
	limit := filter.Limit
	if limit < 1 {
		limit = 1
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.Complaint{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

// Count reports how many complaints were ever created, seeded records
// included.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq, nil
}

// Append adds a history entry to a complaint's case log. Entries keep
// insertion order; identifiers follow the CH-<seq>-<n> scheme when not
// supplied by the caller.
func (s *MemoryStore) Append(ctx context.Context, entry *domain.CaseHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[entry.ComplaintID]
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("CH-%s-%d", strings.TrimPrefix(entry.ComplaintID, "CMP-"), len(entries)+1)
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	s.history[entry.ComplaintID] = append(entries, *entry)
	return nil
}

// ListByComplaint returns the ordered case log, empty when the
// complaint is unknown or has no entries.
func (s *MemoryStore) ListByComplaint(ctx context.Context, complaintID string) ([]domain.CaseHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[complaintID]
	result := make([]domain.CaseHistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

// Restore inserts a fully formed record without allocating a new
// identifier and advances the sequence counter past it. Used by the
// demo seed loader.
func (s *MemoryStore) Restore(complaint domain.Complaint, contact domain.Contact, history []domain.CaseHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.complaints[complaint.ID] = complaint
	s.contacts[complaint.ID] = contact
	s.history[complaint.ID] = append([]domain.CaseHistoryEntry(nil), history...)
	s.order = append(s.order, complaint.ID)

	var seq int
	if _, err := fmt.Sscanf(complaint.ID, "CMP-%d", &seq); err == nil && seq > s.seq {
		s.seq = seq
	}
}

func matchesFilter(c domain.Complaint, filter ComplaintFilter) bool {
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		term := strings.ToLower(strings.TrimSpace(*filter.Search))
		if !strings.Contains(strings.ToLower(c.ID), term) &&
			!strings.Contains(strings.ToLower(c.Subject), term) &&
			!strings.Contains(strings.ToLower(c.Description), term) &&
			!strings.Contains(strings.ToLower(string(c.Type)), term) {
			return false
		}
	}
	if filter.Status != nil && c.Status != *filter.Status {
		return false
	}
	if filter.Type != nil && c.Type != *filter.Type {
		return false
	}
	if filter.DateFrom != nil && c.DateSubmitted.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && c.DateSubmitted.After(*filter.DateTo) {
		return false
	}
	return true
}

func cloneComplaint(c domain.Complaint) domain.Complaint {
	if c.Documents != nil {
		docs := make([]string, len(c.Documents))
		copy(docs, c.Documents)
		c.Documents = docs
	}
	return c
}
