// Package seed loads the three demo complaints used by the list and
// detail views before any real submissions exist.
package seed

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// Load restores the demo records into the in-memory store. The store's
// identifier sequence continues after the highest seeded complaint.
func Load(store *repository.MemoryStore) {
	for _, record := range Records() {
		store.Restore(record.Complaint.Complaint, record.Complaint.Contact, record.History)
	}
}

// Record bundles one seeded complaint with its case log.
type Record struct {
	Complaint domain.ComplaintWithContact
	History   []domain.CaseHistoryEntry
}

// Records returns the demo data set: three complaints, one per
// representative lifecycle state.
func Records() []Record {
	return []Record{
		{
			Complaint: domain.ComplaintWithContact{
				Complaint: domain.Complaint{
					ID:            "CMP-001",
					Subject:       "Payment Issue",
					Description:   "I was charged twice for the same service on my recent bill. I have attempted to contact the billing department multiple times without resolution. The duplicate charge is for $250.00 and occurred on my January statement.",
					Type:          domain.TypeBilling,
					Status:        domain.StatusInProgress,
					DateSubmitted: date("01/15/2023"),
					DateOfIssue:   datePtr("01/05/2023"),
					LastUpdated:   date("01/20/2023"),
					Documents:     []string{"January_Bill.pdf", "Email_Correspondence.pdf"},
				},
				Contact: domain.Contact{
					ComplaintID: "CMP-001",
					FirstName:   "John",
					LastName:    "Smith",
					Email:       "john.smith@example.com",
					Phone:       strPtr("5551234567"),
					ZipCode:     "12345",
				},
			},
			History: []domain.CaseHistoryEntry{
				entry("CH-001-1", "CMP-001", "Status changed to In Progress", "01/16/2023 - 10:30 AM", domain.ActorSystem, "Complaint assigned to resolution team."),
				entry("CH-001-2", "CMP-001", "Note added", "01/17/2023 - 3:15 PM", domain.ActorAgent, "Contacted billing department to verify duplicate charge. Awaiting response."),
				entry("CH-001-3", "CMP-001", "Note added", "01/20/2023 - 11:45 AM", domain.ActorAgent, "Billing department confirmed duplicate charge. Refund processing initiated."),
			},
		},
		{
			Complaint: domain.ComplaintWithContact{
				Complaint: domain.Complaint{
					ID:            "CMP-002",
					Subject:       "Coverage Dispute",
					Description:   "My insurance claim for a recent procedure was denied, but I believe it should be covered under my plan.",
					Type:          domain.TypeInsurance,
					Status:        domain.StatusResolved,
					DateSubmitted: date("02/10/2023"),
					DateOfIssue:   datePtr("02/01/2023"),
					LastUpdated:   date("02/25/2023"),
					Documents:     []string{"Insurance_Claim.pdf", "Plan_Details.pdf"},
				},
				Contact: domain.Contact{
					ComplaintID: "CMP-002",
					FirstName:   "Jane",
					LastName:    "Doe",
					Email:       "jane.doe@example.com",
					Phone:       strPtr("5559876543"),
					ZipCode:     "54321",
				},
			},
			History: []domain.CaseHistoryEntry{
				entry("CH-002-1", "CMP-002", "Status changed to Open", "02/10/2023 - 9:00 AM", domain.ActorSystem, "Complaint received and registered."),
				entry("CH-002-2", "CMP-002", "Status changed to In Progress", "02/12/2023 - 1:30 PM", domain.ActorSystem, "Complaint assigned to insurance specialist."),
				entry("CH-002-3", "CMP-002", "Note added", "02/15/2023 - 10:15 AM", domain.ActorAgent, "Reviewed insurance policy and found procedure is covered. Contacting insurance provider."),
				entry("CH-002-4", "CMP-002", "Status changed to Resolved", "02/25/2023 - 9:45 AM", domain.ActorAgent, "Insurance provider has approved the claim. Payment will be processed within 7-10 business days."),
			},
		},
		{
			Complaint: domain.ComplaintWithContact{
				Complaint: domain.Complaint{
					ID:            "CMP-003",
					Subject:       "Provider Network Issue",
					Description:   "I was told this doctor was in-network, but I received an out-of-network bill.",
					Type:          domain.TypeProvider,
					Status:        domain.StatusOpen,
					DateSubmitted: date("03/22/2023"),
					DateOfIssue:   datePtr("03/15/2023"),
					LastUpdated:   date("03/22/2023"),
					Documents:     []string{"Provider_Bill.pdf"},
				},
				Contact: domain.Contact{
					ComplaintID: "CMP-003",
					FirstName:   "Robert",
					LastName:    "Johnson",
					Email:       "robert.johnson@example.com",
					Phone:       strPtr("5554567890"),
					ZipCode:     "67890",
				},
			},
			History: []domain.CaseHistoryEntry{
				entry("CH-003-1", "CMP-003", "Status changed to Open", "03/22/2023 - 2:00 PM", domain.ActorSystem, "Complaint received and registered."),
			},
		},
	}
}

func date(val string) time.Time {
	t, _ := time.Parse("01/02/2006", val)
	return t
}

func datePtr(val string) *time.Time {
	t := date(val)
	return &t
}

func entry(id, complaintID, action, when string, actor domain.HistoryActor, notes string) domain.CaseHistoryEntry {
	t, _ := time.Parse("01/02/2006 - 3:04 PM", when)
	return domain.CaseHistoryEntry{
		ID:          id,
		ComplaintID: complaintID,
		Action:      action,
		Date:        t,
		Actor:       actor,
		Notes:       &notes,
	}
}

func strPtr(val string) *string {
	return &val
}
