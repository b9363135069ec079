package withdrawalrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/pg"
)

const selectWithdrawals = `
	SELECT w.id, w.user_id, w.username, w.amount, w.currency, w.wallet_address, w.status,
		w.transaction_hash, w.reject_reason, w.created_at, w.confirmed_at, w.approved_at, w.completed_at,
		COALESCE(u.username, ''), COALESCE(u.email, '')
	FROM withdrawals w
	LEFT JOIN users u ON u.id = w.user_id
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx, selectWithdrawals+`WHERE w.id = $1`, id)
	withdrawal, err := scanWithdrawal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("withdrawal %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("failed to get withdrawal", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return withdrawal, nil
}

// CompareAndSwapStatus writes the mutable fields of withdrawal only while the stored status
// still equals expected. Under concurrent writers the loser re-reads the committed row and
// matches nothing.
func (r *Repository) CompareAndSwapStatus(ctx context.Context, expected domain.WithdrawalStatus, withdrawal *domain.Withdrawal) error {
	query := `
		UPDATE withdrawals
		SET status = $1, transaction_hash = $2, reject_reason = $3,
			confirmed_at = $4, approved_at = $5, completed_at = $6
		WHERE id = $7 AND status = $8
	`
	tag, err := r.db.Exec(ctx, query,
		withdrawal.Status, withdrawal.TransactionHash, withdrawal.RejectReason,
		withdrawal.ConfirmedAt, withdrawal.ApprovedAt, withdrawal.CompletedAt,
		withdrawal.ID, expected,
	)
	if err != nil {
		zap.L().Error("failed to update withdrawal status", zap.Int64("id", withdrawal.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %d is no longer %s: %w", withdrawal.ID, expected, domain.ErrConcurrencyConflict)
	}
	return nil
}

func (r *Repository) Scan(ctx context.Context, filter domain.WithdrawalFilter) ([]domain.Withdrawal, error) {
	query := selectWithdrawals
	var args []any
	if filter.Status != nil {
		query += `WHERE w.status = $1 `
		args = append(args, *filter.Status)
	}
	query += `ORDER BY w.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to scan withdrawals", zap.Error(err))
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx, selectWithdrawals+`ORDER BY w.created_at DESC LIMIT $1`, limit)
	if err != nil {
		zap.L().Error("failed to fetch recent withdrawals", zap.Error(err))
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]domain.Withdrawal, error) {
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		wd, err := scanWithdrawal(rows)
		if err != nil {
			zap.L().Error("failed to scan withdrawal row", zap.Error(err))
			return nil, err
		}
		withdrawals = append(withdrawals, *wd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var (
		w               domain.Withdrawal
		username, email string
	)
	err := row.Scan(
		&w.ID, &w.UserID, &w.Username, &w.Amount, &w.Currency, &w.WalletAddress, &w.Status,
		&w.TransactionHash, &w.RejectReason, &w.CreatedAt, &w.ConfirmedAt, &w.ApprovedAt, &w.CompletedAt,
		&username, &email,
	)
	if err != nil {
		return nil, err
	}
	if username != "" || email != "" {
		w.User = &domain.UserRef{Username: username, Email: email}
	}
	return &w, nil
}
