package activity

import (
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/investadmin/internal/domain"
)

type DepositStats struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Pending     int             `json:"pending"`
	// Approved counts approved and active together.
	Approved  int `json:"approved"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

type WithdrawalStats struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Pending     int             `json:"pending"`
	NeedsAction int             `json:"needsAction"`
	Approved    int             `json:"approved"`
	Completed   int             `json:"completed"`
	Rejected    int             `json:"rejected"`
}

func SummarizeDeposits(deposits []domain.Deposit) DepositStats {
	stats := DepositStats{TotalAmount: decimal.Zero}
	for _, d := range deposits {
		stats.Count++
		stats.TotalAmount = stats.TotalAmount.Add(d.Amount)
		switch {
		case d.Status == domain.DepositPending:
			stats.Pending++
		case d.Status.IsLive():
			stats.Approved++
		case d.Status == domain.DepositCompleted:
			stats.Completed++
		case d.Status == domain.DepositRejected:
			stats.Rejected++
		}
	}
	return stats
}

// SummarizeWithdrawals counts pending and confirmed requests as needing admin action.
// Approved includes processing, since funds have left the balance in both.
func SummarizeWithdrawals(withdrawals []domain.Withdrawal) WithdrawalStats {
	stats := WithdrawalStats{TotalAmount: decimal.Zero}
	for _, w := range withdrawals {
		stats.Count++
		stats.TotalAmount = stats.TotalAmount.Add(w.Amount)
		if domain.CanApproveOrReject(w.Status) {
			stats.NeedsAction++
		}
		switch w.Status {
		case domain.WithdrawalPending:
			stats.Pending++
		case domain.WithdrawalApproved, domain.WithdrawalProcessing:
			stats.Approved++
		case domain.WithdrawalCompleted:
			stats.Completed++
		case domain.WithdrawalRejected:
			stats.Rejected++
		}
	}
	return stats
}
