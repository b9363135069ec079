package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/investadmin/internal/domain"
)

type UserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type DepositResponseDTO struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"userId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Plan             string          `json:"plan"`
	ProfitPercentage decimal.Decimal `json:"profitPercentage"`
	DurationDays     int             `json:"durationDays"`
	Status           string          `json:"status"`
	TransactionID    string          `json:"transactionId,omitempty"`
	RejectReason     string          `json:"rejectReason,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	ApprovedAt       *time.Time      `json:"approvedAt,omitempty"`
	User             *UserDTO        `json:"user,omitempty"`
}

func NewDepositResponse(d *domain.Deposit) DepositResponseDTO {
	return DepositResponseDTO{
		ID:               d.ID,
		UserID:           d.UserID,
		Amount:           d.Amount,
		Currency:         d.Currency,
		Plan:             d.Plan,
		ProfitPercentage: d.ProfitPercentage,
		DurationDays:     d.DurationDays,
		Status:           string(d.Status),
		TransactionID:    d.TransactionID,
		RejectReason:     d.RejectReason,
		CreatedAt:        d.CreatedAt,
		ApprovedAt:       d.ApprovedAt,
		User:             userDTO(d.User),
	}
}

func NewDepositsResponse(deposits []domain.Deposit) []DepositResponseDTO {
	out := make([]DepositResponseDTO, len(deposits))
	for i := range deposits {
		out[i] = NewDepositResponse(&deposits[i])
	}
	return out
}

func userDTO(u *domain.UserRef) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{Username: u.Username, Email: u.Email}
}
