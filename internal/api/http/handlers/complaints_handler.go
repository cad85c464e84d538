package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/validation"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages the complaint intake and tracking endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// ListComplaints GET /api/complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	query := parseListQuery(c)
	complaints, pagination, err := h.service.List(c.Context(), query)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, dto.FromComplaint(complaint))
	}
	return c.JSON(dto.ComplaintListResponse{
		Complaints: items,
		Pagination: pagination,
	})
}

// GetComplaint GET /api/complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComplaintWithContact(record))
}

// GetCaseHistory GET /api/complaints/:id/history.
func (h *ComplaintsHandler) GetCaseHistory(c *fiber.Ctx) error {
	history, err := h.service.History(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromHistory(history))
}

// CreateComplaint POST /api/complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	var sub validation.ComplaintSubmission
	if err := c.BodyParser(&sub); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	record, err := h.service.Create(c.Context(), sub)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromComplaintWithContact(record))
}

// UpdateComplaint PATCH /api/complaints/:id.
func (h *ComplaintsHandler) UpdateComplaint(c *fiber.Ctx) error {
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	record, err := h.service.Update(c.Context(), c.Params("id"), service.ComplaintUpdate{
		Subject:     req.Subject,
		Description: req.Description,
		Type:        req.Type,
		OtherType:   req.OtherType,
		Status:      req.Status,
		DateOfIssue: req.DateOfIssue,
		Notes:       req.Notes,
		Documents:   req.Documents,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComplaintWithContact(record))
}

func parseListQuery(c *fiber.Ctx) service.ListQuery {
	query := service.ListQuery{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 10),
	}
	if search := c.Query("search"); search != "" {
		query.Search = &search
	}
	if status := c.Query("status"); status != "" {
		value := domain.ComplaintStatus(status)
		query.Status = &value
	}
	if complaintType := c.Query("type"); complaintType != "" {
		value := domain.ComplaintType(complaintType)
		query.Type = &value
	}
	if from := parseDate(c.Query("dateFrom")); from != nil {
		query.DateFrom = from
	}
	if to := parseDate(c.Query("dateTo")); to != nil {
		query.DateTo = to
	}
	return query
}

var queryDateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate tolerates unparseable values: date filters must never make
// a list request fail.
func parseDate(val string) *time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return &t
		}
	}
	return nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
