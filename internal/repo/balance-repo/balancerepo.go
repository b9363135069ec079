package balancerepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetUserBalance(ctx context.Context, userID int64, currency string) (*domain.Balance, error) {
	query := `
        SELECT id, user_id, currency, current_balance, withdrawn_total
        FROM balances
        WHERE user_id = $1 AND currency = $2
    `
	row := r.db.QueryRow(ctx, query, userID, currency)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Currency, &balance.CurrentBalance, &balance.WithdrawnTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("balance of user %d in %s: %w", userID, currency, domain.ErrNotFound)
		}
		zap.L().Error("failed to get user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// Debit takes amount from the user's balance in a single conditional UPDATE, so the
// check and the write cannot interleave with another debit.
func (r *Repository) Debit(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error {
	query := `
		UPDATE balances
		SET current_balance = current_balance - $1,
			withdrawn_total = withdrawn_total + $1
		WHERE user_id = $2 AND currency = $3 AND current_balance >= $1
	`
	tag, err := r.db.Exec(ctx, query, amount, userID, currency)
	if err != nil {
		zap.L().Error("failed to debit user balance", zap.Int64("userID", userID), zap.Error(err))
		return domain.LedgerError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d cannot cover %s %s: %w", userID, amount, currency, domain.ErrInsufficientFunds)
	}
	return nil
}

// Credit returns amount to the user's balance, opening the balance row if the user has
// never held this currency.
func (r *Repository) Credit(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error {
	query := `
		INSERT INTO balances (user_id, currency, current_balance, withdrawn_total)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id, currency)
		DO UPDATE SET current_balance = balances.current_balance + EXCLUDED.current_balance
	`
	if _, err := r.db.Exec(ctx, query, userID, currency, amount); err != nil {
		zap.L().Error("failed to credit user balance", zap.Int64("userID", userID), zap.Error(err))
		return domain.LedgerError(err)
	}
	return nil
}
