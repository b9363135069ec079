package auditrepo

import (
	"context"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Record appends entry to the audit log. Called inside the transition transaction, the row
// commits or rolls back together with the status change.
func (r *Repository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_log (actor_id, record_type, record_id, action, from_status, to_status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		entry.ActorID, entry.RecordType, entry.RecordID, entry.Action,
		entry.FromStatus, entry.ToStatus, entry.Reason, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		zap.L().Error("can't save audit entry", zap.Int64("recordID", entry.RecordID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ListByRecord(ctx context.Context, recordType domain.RecordType, recordID int64) ([]domain.AuditEntry, error) {
	query := `
		SELECT id, actor_id, record_type, record_id, action, from_status, to_status, reason, created_at
		FROM audit_log
		WHERE record_type = $1 AND record_id = $2
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, recordType, recordID)
	if err != nil {
		zap.L().Error("can't get audit entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		err := rows.Scan(&e.ID, &e.ActorID, &e.RecordType, &e.RecordID, &e.Action, &e.FromStatus, &e.ToStatus, &e.Reason, &e.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan audit row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
