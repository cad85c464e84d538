package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type postgresHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryRepository instantiates the pgx-backed case log.
func NewPostgresHistoryRepository(pool *pgxpool.Pool) CaseHistoryRepository {
	return &postgresHistoryRepository{pool: pool}
}

func (r *postgresHistoryRepository) Append(ctx context.Context, entry *domain.CaseHistoryEntry) error {
	if entry.ID == "" {
		var existing int
		if err := r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM case_history WHERE complaint_id=$1`, entry.ComplaintID,
		).Scan(&existing); err != nil {
			return err
		}
		entry.ID = fmt.Sprintf("CH-%s-%d", strings.TrimPrefix(entry.ComplaintID, "CMP-"), existing+1)
	}

	const query = `
        INSERT INTO case_history (entry_id, complaint_id, action, actor, notes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING entry_date`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.ComplaintID,
		entry.Action,
		entry.Actor,
		entry.Notes,
	).Scan(&entry.Date)
}

func (r *postgresHistoryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.CaseHistoryEntry, error) {
	const query = `
        SELECT entry_id, complaint_id, action, entry_date, actor, notes
        FROM case_history WHERE complaint_id=$1 ORDER BY entry_seq ASC`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.CaseHistoryEntry{}
	for rows.Next() {
		var entry domain.CaseHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.Action,
			&entry.Date,
			&entry.Actor,
			&entry.Notes,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
