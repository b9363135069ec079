package depositrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/investadmin/internal/domain"
)

var depositColumns = []string{
	"id", "user_id", "username", "amount", "currency", "plan", "profit_percentage",
	"duration_days", "status", "transaction_id", "reject_reason", "created_at", "approved_at",
	"username", "email",
}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)

	return repo, mockDB
}

func depositRow(rows *pgxmock.Rows, id int64, status domain.DepositStatus, created time.Time, owner string) *pgxmock.Rows {
	email := ""
	if owner != "" {
		email = owner + "@example.com"
	}
	return rows.AddRow(
		id, int64(7), "", decimal.NewFromInt(100), "USDT", "starter", decimal.NewFromInt(12),
		30, status, "tx-1", "", created, nil,
		owner, email,
	)
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("WHERE d.id = $1")
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func()
		wantErr   error
		expectErr bool
		result    *domain.Deposit
	}{
		{
			name: "Deposit with owner",
			mockSetup: func() {
				rows := depositRow(pgxmock.NewRows(depositColumns), 1, domain.DepositPending, created, "alice")
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(rows)
			},
			result: &domain.Deposit{
				ID:               1,
				UserID:           7,
				Amount:           decimal.NewFromInt(100),
				Currency:         "USDT",
				Plan:             "starter",
				ProfitPercentage: decimal.NewFromInt(12),
				DurationDays:     30,
				Status:           domain.DepositPending,
				TransactionID:    "tx-1",
				CreatedAt:        created,
				User:             &domain.UserRef{Username: "alice", Email: "alice@example.com"},
			},
		},
		{
			name: "Deposit without owner",
			mockSetup: func() {
				rows := depositRow(pgxmock.NewRows(depositColumns), 2, domain.DepositActive, created, "")
				mock.ExpectQuery(query).WithArgs(int64(2)).WillReturnRows(rows)
			},
			result: &domain.Deposit{
				ID:               2,
				UserID:           7,
				Amount:           decimal.NewFromInt(100),
				Currency:         "USDT",
				Plan:             "starter",
				ProfitPercentage: decimal.NewFromInt(12),
				DurationDays:     30,
				Status:           domain.DepositActive,
				TransactionID:    "tx-1",
				CreatedAt:        created,
			},
		},
		{
			name: "Deposit not found",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(int64(3)).WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(int64(4)).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Get(context.Background(), int64(i+1))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
			case tt.expectErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrNotFound)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CompareAndSwapStatus(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("WHERE id = $5 AND status = $6")
	approvedAt := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	deposit := &domain.Deposit{ID: 1, Status: domain.DepositApproved, ApprovedAt: &approvedAt}

	tests := []struct {
		name      string
		mockSetup func()
		wantErr   error
		expectErr bool
	}{
		{
			name: "Status swapped",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.DepositApproved, "", pgxmock.AnyArg(), "", int64(1), domain.DepositPending).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "Status moved concurrently",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.DepositApproved, "", pgxmock.AnyArg(), "", int64(1), domain.DepositPending).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrConcurrencyConflict,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.DepositApproved, "", pgxmock.AnyArg(), "", int64(1), domain.DepositPending).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.CompareAndSwapStatus(context.Background(), domain.DepositPending, deposit)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.expectErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("DELETE FROM deposits WHERE id = $1")

	t.Run("Deposit deleted", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Deposit already gone", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 1), domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(int64(1)).WillReturnError(errors.New("database error"))

		err := repo.Delete(context.Background(), 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Scan(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	pending := domain.DepositPending

	tests := []struct {
		name      string
		filter    domain.DepositFilter
		mockSetup func()
		expectErr bool
		ids       []int64
	}{
		{
			name:   "All deposits",
			filter: domain.DepositFilter{},
			mockSetup: func() {
				rows := pgxmock.NewRows(depositColumns)
				depositRow(rows, 2, domain.DepositActive, created, "bob")
				depositRow(rows, 1, domain.DepositPending, created, "alice")
				mock.ExpectQuery(regexp.QuoteMeta("ORDER BY d.id DESC")).WillReturnRows(rows)
			},
			ids: []int64{2, 1},
		},
		{
			name:   "Filtered by status",
			filter: domain.DepositFilter{Status: &pending},
			mockSetup: func() {
				rows := depositRow(pgxmock.NewRows(depositColumns), 1, domain.DepositPending, created, "alice")
				mock.ExpectQuery(regexp.QuoteMeta("WHERE d.status = $1 ORDER BY d.id DESC")).
					WithArgs(domain.DepositPending).
					WillReturnRows(rows)
			},
			ids: []int64{1},
		},
		{
			name:   "Database error",
			filter: domain.DepositFilter{},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("ORDER BY d.id DESC")).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Scan(context.Background(), tt.filter)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				ids := make([]int64, 0, len(result))
				for _, d := range result {
					ids = append(ids, d.ID)
				}
				assert.Equal(t, tt.ids, ids)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ListRecent(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(depositColumns)
	depositRow(rows, 3, domain.DepositPending, created, "carol")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY d.created_at DESC LIMIT $1")).WithArgs(5).WillReturnRows(rows)

	result, err := repo.ListRecent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "carol", result[0].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
