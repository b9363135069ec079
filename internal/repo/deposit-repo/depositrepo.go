package depositrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/pg"
)

const selectDeposits = `
	SELECT d.id, d.user_id, d.username, d.amount, d.currency, d.plan, d.profit_percentage,
		d.duration_days, d.status, d.transaction_id, d.reject_reason, d.created_at, d.approved_at,
		COALESCE(u.username, ''), COALESCE(u.email, '')
	FROM deposits d
	LEFT JOIN users u ON u.id = d.user_id
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx, selectDeposits+`WHERE d.id = $1`, id)
	deposit, err := scanDeposit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("deposit %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("failed to get deposit", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

// CompareAndSwapStatus writes the mutable fields of deposit only while the stored status
// still equals expected.
func (r *Repository) CompareAndSwapStatus(ctx context.Context, expected domain.DepositStatus, deposit *domain.Deposit) error {
	query := `
		UPDATE deposits
		SET status = $1, reject_reason = $2, approved_at = $3, transaction_id = $4
		WHERE id = $5 AND status = $6
	`
	tag, err := r.db.Exec(ctx, query,
		deposit.Status, deposit.RejectReason, deposit.ApprovedAt, deposit.TransactionID,
		deposit.ID, expected,
	)
	if err != nil {
		zap.L().Error("failed to update deposit status", zap.Int64("id", deposit.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d is no longer %s: %w", deposit.ID, expected, domain.ErrConcurrencyConflict)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deposits WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete deposit", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) Scan(ctx context.Context, filter domain.DepositFilter) ([]domain.Deposit, error) {
	query := selectDeposits
	var args []any
	if filter.Status != nil {
		query += `WHERE d.status = $1 `
		args = append(args, *filter.Status)
	}
	query += `ORDER BY d.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to scan deposits", zap.Error(err))
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domain.Deposit, error) {
	rows, err := r.db.Query(ctx, selectDeposits+`ORDER BY d.created_at DESC LIMIT $1`, limit)
	if err != nil {
		zap.L().Error("failed to fetch recent deposits", zap.Error(err))
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]domain.Deposit, error) {
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			zap.L().Error("failed to scan deposit row", zap.Error(err))
			return nil, err
		}
		deposits = append(deposits, *deposit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deposits, nil
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var (
		d               domain.Deposit
		username, email string
	)
	err := row.Scan(
		&d.ID, &d.UserID, &d.Username, &d.Amount, &d.Currency, &d.Plan, &d.ProfitPercentage,
		&d.DurationDays, &d.Status, &d.TransactionID, &d.RejectReason, &d.CreatedAt, &d.ApprovedAt,
		&username, &email,
	)
	if err != nil {
		return nil, err
	}
	if username != "" || email != "" {
		d.User = &domain.UserRef{Username: username, Email: email}
	}
	return &d, nil
}
