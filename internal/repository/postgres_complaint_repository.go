package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type postgresComplaintRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresComplaintRepository instantiates the pgx-backed repository.
func NewPostgresComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &postgresComplaintRepository{pool: pool}
}

func (r *postgresComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint, contact *domain.Contact) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('complaint_seq')`).Scan(&seq); err != nil {
		return err
	}
	complaint.ID = fmt.Sprintf("CMP-%03d", seq)
	if complaint.Documents == nil {
		complaint.Documents = []string{}
	}

	const insertComplaint = `
        INSERT INTO complaints (complaint_id, seq, subject, description, type, other_type, status, date_of_issue, documents)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING date_submitted, last_updated`
	if err := tx.QueryRow(ctx, insertComplaint,
		complaint.ID,
		seq,
		complaint.Subject,
		complaint.Description,
		complaint.Type,
		complaint.OtherType,
		complaint.Status,
		complaint.DateOfIssue,
		complaint.Documents,
	).Scan(&complaint.DateSubmitted, &complaint.LastUpdated); err != nil {
		return err
	}

	contact.ComplaintID = complaint.ID
	const insertContact = `
        INSERT INTO contacts (complaint_id, first_name, last_name, email, phone, zip_code)
        VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := tx.Exec(ctx, insertContact,
		contact.ComplaintID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.ZipCode,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresComplaintRepository) GetByID(ctx context.Context, id string) (*domain.ComplaintWithContact, error) {
	const query = `
        SELECT c.complaint_id, c.subject, c.description, c.type, c.other_type, c.status,
               c.date_submitted, c.date_of_issue, c.last_updated, c.documents,
               ct.first_name, ct.last_name, ct.email, ct.phone, ct.zip_code
        FROM complaints c
        JOIN contacts ct ON ct.complaint_id = c.complaint_id
        WHERE c.complaint_id = $1`

	var result domain.ComplaintWithContact
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Subject,
		&result.Description,
		&result.Type,
		&result.OtherType,
		&result.Status,
		&result.DateSubmitted,
		&result.DateOfIssue,
		&result.LastUpdated,
		&result.Documents,
		&result.Contact.FirstName,
		&result.Contact.LastName,
		&result.Contact.Email,
		&result.Contact.Phone,
		&result.Contact.ZipCode,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	result.Contact.ComplaintID = result.ID
	return &result, nil
}

func (r *postgresComplaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET subject=$1, description=$2, type=$3, other_type=$4,
            status=$5, date_of_issue=$6, documents=$7, last_updated=NOW()
        WHERE complaint_id=$8
        RETURNING last_updated`
	err := r.pool.QueryRow(ctx, query,
		complaint.Subject,
		complaint.Description,
		complaint.Type,
		complaint.OtherType,
		complaint.Status,
		complaint.DateOfIssue,
		complaint.Documents,
		complaint.ID,
	).Scan(&complaint.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *postgresComplaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(complaint_id) LIKE %s OR LOWER(subject) LIKE %s OR LOWER(description) LIKE %s OR LOWER(type) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("date_submitted >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("date_submitted <= $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM complaints WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 1
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT complaint_id, subject, description, type, other_type, status,
               date_submitted, date_of_issue, last_updated, documents
        FROM complaints WHERE %s ORDER BY seq ASC LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	complaints, err := scanComplaints(rows)
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

func (r *postgresComplaintRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(seq), 0) FROM complaints`).Scan(&count)
	return count, err
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	result := []domain.Complaint{}
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Subject,
			&complaint.Description,
			&complaint.Type,
			&complaint.OtherType,
			&complaint.Status,
			&complaint.DateSubmitted,
			&complaint.DateOfIssue,
			&complaint.LastUpdated,
			&complaint.Documents,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
