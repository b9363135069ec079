package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/investadmin/internal/domain"
)

type WithdrawalResponseDTO struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	WalletAddress   string          `json:"walletAddress"`
	Status          string          `json:"status"`
	TransactionHash string          `json:"transactionHash,omitempty"`
	RejectReason    string          `json:"rejectReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	ConfirmedAt     *time.Time      `json:"confirmedAt,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	User            *UserDTO        `json:"user,omitempty"`
}

func NewWithdrawalResponse(w *domain.Withdrawal) WithdrawalResponseDTO {
	return WithdrawalResponseDTO{
		ID:              w.ID,
		UserID:          w.UserID,
		Amount:          w.Amount,
		Currency:        w.Currency,
		WalletAddress:   w.WalletAddress,
		Status:          string(w.Status),
		TransactionHash: w.TransactionHash,
		RejectReason:    w.RejectReason,
		CreatedAt:       w.CreatedAt,
		ConfirmedAt:     w.ConfirmedAt,
		ApprovedAt:      w.ApprovedAt,
		CompletedAt:     w.CompletedAt,
		User:            userDTO(w.User),
	}
}

func NewWithdrawalsResponse(withdrawals []domain.Withdrawal) []WithdrawalResponseDTO {
	out := make([]WithdrawalResponseDTO, len(withdrawals))
	for i := range withdrawals {
		out[i] = NewWithdrawalResponse(&withdrawals[i])
	}
	return out
}

type BalanceResponseDTO struct {
	UserID    int64           `json:"userId"`
	Currency  string          `json:"currency"`
	Current   decimal.Decimal `json:"current"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
}

type AuditEntryDTO struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actorId"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
