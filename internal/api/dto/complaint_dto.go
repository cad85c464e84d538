package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
)

// UpdateComplaintRequest carries a partial PATCH body. Nil fields are
// left untouched; documents are appended.
type UpdateComplaintRequest struct {
	Subject     *string  `json:"subject"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	OtherType   *string  `json:"otherType"`
	Status      *string  `json:"status"`
	DateOfIssue *string  `json:"dateOfIssue"`
	Notes       *string  `json:"notes"`
	Documents   []string `json:"documents"`
}

// ComplaintResponse is the wire form of a complaint.
type ComplaintResponse struct {
	ID            string     `json:"id"`
	Subject       string     `json:"subject"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	OtherType     *string    `json:"otherType,omitempty"`
	Status        string     `json:"status"`
	DateSubmitted time.Time  `json:"dateSubmitted"`
	DateOfIssue   *time.Time `json:"dateOfIssue,omitempty"`
	LastUpdated   time.Time  `json:"lastUpdated"`
	Documents     []string   `json:"documents"`
}

// ContactResponse is the wire form of a complainant contact.
type ContactResponse struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	ZipCode   string  `json:"zipCode"`
}

// ComplaintDetailResponse bundles a complaint with its contact.
type ComplaintDetailResponse struct {
	ComplaintResponse
	Contact ContactResponse `json:"contact"`
}

// ComplaintListResponse is the paginated list envelope.
type ComplaintListResponse struct {
	Complaints []ComplaintResponse `json:"complaints"`
	Pagination service.Pagination  `json:"pagination"`
}

// CaseHistoryResponse is the wire form of one case log entry. The
// actor keeps its historical wire name "user".
type CaseHistoryResponse struct {
	ID     string    `json:"id"`
	Action string    `json:"action"`
	Date   time.Time `json:"date"`
	User   string    `json:"user"`
	Notes  *string   `json:"notes,omitempty"`
}

// FromComplaint converts a domain complaint.
func FromComplaint(c domain.Complaint) ComplaintResponse {
	docs := c.Documents
	if docs == nil {
		docs = []string{}
	}
	return ComplaintResponse{
		ID:            c.ID,
		Subject:       c.Subject,
		Description:   c.Description,
		Type:          string(c.Type),
		OtherType:     c.OtherType,
		Status:        string(c.Status),
		DateSubmitted: c.DateSubmitted,
		DateOfIssue:   c.DateOfIssue,
		LastUpdated:   c.LastUpdated,
		Documents:     docs,
	}
}

// FromComplaintWithContact converts a domain complaint plus contact.
func FromComplaintWithContact(record *domain.ComplaintWithContact) ComplaintDetailResponse {
	return ComplaintDetailResponse{
		ComplaintResponse: FromComplaint(record.Complaint),
		Contact: ContactResponse{
			FirstName: record.Contact.FirstName,
			LastName:  record.Contact.LastName,
			Email:     record.Contact.Email,
			Phone:     record.Contact.Phone,
			ZipCode:   record.Contact.ZipCode,
		},
	}
}

// FromHistory converts an ordered case log.
func FromHistory(entries []domain.CaseHistoryEntry) []CaseHistoryResponse {
	result := make([]CaseHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, CaseHistoryResponse{
			ID:     entry.ID,
			Action: entry.Action,
			Date:   entry.Date,
			User:   string(entry.Actor),
			Notes:  entry.Notes,
		})
	}
	return result
}
