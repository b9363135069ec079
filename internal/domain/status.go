package domain

import "fmt"

type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositApproved  DepositStatus = "approved"
	DepositActive    DepositStatus = "active"
	DepositCompleted DepositStatus = "completed"
	DepositRejected  DepositStatus = "rejected"
	DepositCancelled DepositStatus = "cancelled"
)

func ParseDepositStatus(raw string) (DepositStatus, error) {
	s := DepositStatus(raw)
	switch s {
	case DepositPending, DepositApproved, DepositActive, DepositCompleted, DepositRejected, DepositCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown deposit status %q", ErrValidation, raw)
}

// IsLive reports whether the deposit has been admin-approved. approved and active
// are the same bucket.
func (s DepositStatus) IsLive() bool {
	return s == DepositApproved || s == DepositActive
}

func (s DepositStatus) IsTerminal() bool {
	return s == DepositCompleted || s == DepositRejected || s == DepositCancelled
}

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalConfirmed  WithdrawalStatus = "confirmed"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalCancelled  WithdrawalStatus = "cancelled"
)

func ParseWithdrawalStatus(raw string) (WithdrawalStatus, error) {
	s := WithdrawalStatus(raw)
	switch s {
	case WithdrawalPending, WithdrawalConfirmed, WithdrawalApproved, WithdrawalProcessing,
		WithdrawalCompleted, WithdrawalRejected, WithdrawalCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown withdrawal status %q", ErrValidation, raw)
}

func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalRejected || s == WithdrawalCancelled
}

// CanApproveOrReject holds for pending and confirmed only. Funds are debited on approval,
// so excluding approved and processing keeps rejection from ever needing a refund.
func CanApproveOrReject(s WithdrawalStatus) bool {
	return s == WithdrawalPending || s == WithdrawalConfirmed
}

func CanComplete(s WithdrawalStatus) bool {
	return s == WithdrawalApproved || s == WithdrawalProcessing
}

func CanConfirm(s WithdrawalStatus) bool {
	return s == WithdrawalPending
}

func CanStartProcessing(s WithdrawalStatus) bool {
	return s == WithdrawalApproved
}

// CanCancel holds for every non-terminal status.
func CanCancel(s WithdrawalStatus) bool {
	return !s.IsTerminal()
}

// IsDebited reports whether the owner's balance has already been charged for a
// withdrawal in status s.
func IsDebited(s WithdrawalStatus) bool {
	return s == WithdrawalApproved || s == WithdrawalProcessing || s == WithdrawalCompleted
}
