package activityservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/investadmin/internal/activity"
	"github.com/GlebRadaev/investadmin/internal/domain"
)

type mocks struct {
	deposits    *MockDepositRepo
	withdrawals *MockWithdrawalRepo
	users       *MockUserRepo
	audit       *MockAuditRepo
	balances    *MockBalanceRepo
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		deposits:    NewMockDepositRepo(ctrl),
		withdrawals: NewMockWithdrawalRepo(ctrl),
		users:       NewMockUserRepo(ctrl),
		audit:       NewMockAuditRepo(ctrl),
		balances:    NewMockBalanceRepo(ctrl),
	}
	return New(m.deposits, m.withdrawals, m.users, m.audit, m.balances, 20), m
}

func TestFeed(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t1.Add(time.Hour)

	tests := []struct {
		name          string
		limit         int
		prepareMock   func(m mocks)
		expectedTypes []activity.EntryType
		expectedError error
	}{
		{
			name:  "Merges three sources",
			limit: 5,
			prepareMock: func(m mocks) {
				m.deposits.EXPECT().ListRecent(gomock.Any(), 5).Return([]domain.Deposit{
					{ID: 1, Amount: decimal.NewFromInt(100), Status: domain.DepositPending, CreatedAt: t1,
						User: &domain.UserRef{Username: "alice"}},
				}, nil)
				m.withdrawals.EXPECT().ListRecent(gomock.Any(), 5).Return([]domain.Withdrawal{
					{ID: 2, Amount: decimal.NewFromInt(50), Status: domain.WithdrawalCompleted, CreatedAt: t2},
				}, nil)
				m.users.EXPECT().ListRecentRegistrations(gomock.Any(), 5).Return([]domain.Registration{
					{UserID: 3, Username: "bob", Status: "active", CreatedAt: t0},
				}, nil)
			},
			expectedTypes: []activity.EntryType{activity.TypeWithdrawal, activity.TypeDeposit, activity.TypeRegistration},
		},
		{
			name:  "Default limit",
			limit: 0,
			prepareMock: func(m mocks) {
				m.deposits.EXPECT().ListRecent(gomock.Any(), 20).Return(nil, nil)
				m.withdrawals.EXPECT().ListRecent(gomock.Any(), 20).Return(nil, nil)
				m.users.EXPECT().ListRecentRegistrations(gomock.Any(), 20).Return(nil, nil)
			},
			expectedTypes: []activity.EntryType{},
		},
		{
			name:  "One source fails",
			limit: 5,
			prepareMock: func(m mocks) {
				m.deposits.EXPECT().ListRecent(gomock.Any(), 5).Return(nil, nil).AnyTimes()
				m.withdrawals.EXPECT().ListRecent(gomock.Any(), 5).Return(nil, errors.New("connection reset")).AnyTimes()
				m.users.EXPECT().ListRecentRegistrations(gomock.Any(), 5).Return(nil, nil).AnyTimes()
			},
			expectedError: domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			feed, err := service.Feed(context.Background(), tt.limit)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			types := make([]activity.EntryType, 0, len(feed))
			for _, e := range feed {
				types = append(types, e.Type)
			}
			assert.Equal(t, tt.expectedTypes, types)
		})
	}
}

func TestOverview(t *testing.T) {
	service, m := NewMock(t)
	m.deposits.EXPECT().Scan(gomock.Any(), domain.DepositFilter{}).Return([]domain.Deposit{
		{Amount: decimal.NewFromInt(100), Status: domain.DepositPending},
		{Amount: decimal.NewFromInt(200), Status: domain.DepositApproved},
		{Amount: decimal.NewFromInt(50), Status: domain.DepositActive},
	}, nil)
	m.withdrawals.EXPECT().Scan(gomock.Any(), domain.WithdrawalFilter{}).Return([]domain.Withdrawal{
		{Amount: decimal.NewFromInt(10), Status: domain.WithdrawalConfirmed},
	}, nil)
	m.users.EXPECT().Count(gomock.Any()).Return(int64(42), nil)

	overview, err := service.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, overview.Deposits.TotalAmount.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, 1, overview.Deposits.Pending)
	assert.Equal(t, 2, overview.Deposits.Approved)
	assert.Equal(t, 1, overview.Withdrawals.NeedsAction)
	assert.Equal(t, int64(42), overview.Users)
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name          string
		recordType    domain.RecordType
		prepareMock   func(m mocks)
		expectedLen   int
		expectedError error
	}{
		{
			name:       "Withdrawal history",
			recordType: domain.RecordWithdrawal,
			prepareMock: func(m mocks) {
				m.audit.EXPECT().ListByRecord(gomock.Any(), domain.RecordWithdrawal, int64(7)).Return([]domain.AuditEntry{
					{ID: 1, Action: "confirm"}, {ID: 2, Action: "approve"},
				}, nil)
			},
			expectedLen: 2,
		},
		{
			name:          "Unknown record type",
			recordType:    domain.RecordType("order"),
			prepareMock:   func(m mocks) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:       "Store failure",
			recordType: domain.RecordDeposit,
			prepareMock: func(m mocks) {
				m.audit.EXPECT().ListByRecord(gomock.Any(), domain.RecordDeposit, int64(7)).Return(nil, errors.New("boom"))
			},
			expectedError: domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			entries, err := service.History(context.Background(), tt.recordType, 7)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.expectedLen)
		})
	}
}

func TestBalance(t *testing.T) {
	t.Run("Missing currency", func(t *testing.T) {
		service, _ := NewMock(t)
		_, err := service.Balance(context.Background(), 1, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Not found passes through", func(t *testing.T) {
		service, m := NewMock(t)
		m.balances.EXPECT().GetUserBalance(gomock.Any(), int64(1), "USDT").Return(nil, domain.ErrNotFound)
		_, err := service.Balance(context.Background(), 1, "USDT")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NotErrorIs(t, err, domain.ErrStore)
	})

	t.Run("Found", func(t *testing.T) {
		service, m := NewMock(t)
		expected := &domain.Balance{ID: 3, UserID: 1, Currency: "USDT", CurrentBalance: decimal.NewFromInt(90)}
		m.balances.EXPECT().GetUserBalance(gomock.Any(), int64(1), "USDT").Return(expected, nil)
		balance, err := service.Balance(context.Background(), 1, "USDT")
		require.NoError(t, err)
		assert.Equal(t, expected, balance)
	})
}
