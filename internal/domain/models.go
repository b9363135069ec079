package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Actor is the administrator on whose behalf an operation runs.
type Actor struct {
	ID int64
}

type UserRef struct {
	Username string `db:"username"`
	Email    string `db:"email"`
}

type Deposit struct {
	ID               int64           `db:"id"`
	UserID           int64           `db:"user_id"`
	Username         string          `db:"username"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Plan             string          `db:"plan"`
	ProfitPercentage decimal.Decimal `db:"profit_percentage"`
	DurationDays     int             `db:"duration_days"`
	Status           DepositStatus   `db:"status"`
	TransactionID    string          `db:"transaction_id"`
	RejectReason     string          `db:"reject_reason"`
	CreatedAt        time.Time       `db:"created_at"`
	ApprovedAt       *time.Time      `db:"approved_at"`

	User *UserRef
}

type Withdrawal struct {
	ID              int64            `db:"id"`
	UserID          int64            `db:"user_id"`
	Username        string           `db:"username"`
	Amount          decimal.Decimal  `db:"amount"`
	Currency        string           `db:"currency"`
	WalletAddress   string           `db:"wallet_address"`
	Status          WithdrawalStatus `db:"status"`
	TransactionHash string           `db:"transaction_hash"`
	RejectReason    string           `db:"reject_reason"`
	CreatedAt       time.Time        `db:"created_at"`
	ConfirmedAt     *time.Time       `db:"confirmed_at"`
	ApprovedAt      *time.Time       `db:"approved_at"`
	CompletedAt     *time.Time       `db:"completed_at"`

	User *UserRef
}

type Registration struct {
	UserID    int64     `db:"id"`
	Username  string    `db:"username"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type Balance struct {
	ID             int64           `db:"id"`
	UserID         int64           `db:"user_id"`
	Currency       string          `db:"currency"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	WithdrawnTotal decimal.Decimal `db:"withdrawn_total"`
}

type DepositFilter struct {
	Status *DepositStatus
}

type WithdrawalFilter struct {
	Status *WithdrawalStatus
}

type RecordType string

const (
	RecordDeposit    RecordType = "deposit"
	RecordWithdrawal RecordType = "withdrawal"
)

type AuditEntry struct {
	ID         int64      `db:"id"`
	ActorID    int64      `db:"actor_id"`
	RecordType RecordType `db:"record_type"`
	RecordID   int64      `db:"record_id"`
	Action     string     `db:"action"`
	FromStatus string     `db:"from_status"`
	ToStatus   string     `db:"to_status"`
	Reason     string     `db:"reason"`
	CreatedAt  time.Time  `db:"created_at"`
}

type EventKind string

const (
	EventDepositApproved     EventKind = "deposit.approved"
	EventDepositRejected     EventKind = "deposit.rejected"
	EventWithdrawalConfirmed EventKind = "withdrawal.confirmed"
	EventWithdrawalApproved  EventKind = "withdrawal.approved"
	EventWithdrawalRejected  EventKind = "withdrawal.rejected"
	EventWithdrawalProcessed EventKind = "withdrawal.processing"
	EventWithdrawalCompleted EventKind = "withdrawal.completed"
	EventWithdrawalCancelled EventKind = "withdrawal.cancelled"
)

// Stamp returns now, moved forward to prev when the clock reads earlier than a stamp
// already recorded on the same record.
func Stamp(now time.Time, prev ...*time.Time) *time.Time {
	ts := now
	for _, p := range prev {
		if p != nil && p.After(ts) {
			ts = *p
		}
	}
	return &ts
}
