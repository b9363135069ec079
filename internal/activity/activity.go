// Package activity merges deposits, withdrawals and registrations into a single feed and
// reduces record collections into overview counters. Nothing here performs I/O.
package activity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/investadmin/internal/domain"
)

const UnknownUsername = "Unknown"

type EntryType string

const (
	TypeDeposit      EntryType = "deposit"
	TypeWithdrawal   EntryType = "withdrawal"
	TypeRegistration EntryType = "registration"
)

// Source is one record to merge. Joins upstream may be partial, so the identity and date
// fields are all optional. The From* adapters always set CreatedAt, since every stored row
// has one; Date is the fallback for sources that only carry a display date.
type Source struct {
	SourceID  int64
	Username  string
	User      *domain.UserRef
	Amount    *decimal.Decimal
	Status    string
	CreatedAt time.Time
	Date      time.Time
}

type Entry struct {
	Type     EntryType        `json:"type"`
	Username string           `json:"username"`
	Amount   *decimal.Decimal `json:"amount"`
	Status   string           `json:"status"`
	Date     time.Time        `json:"date"`
	SourceID int64            `json:"sourceId"`
}

func FromDeposits(deposits []domain.Deposit) []Source {
	out := make([]Source, 0, len(deposits))
	for _, d := range deposits {
		amount := d.Amount
		out = append(out, Source{
			SourceID:  d.ID,
			Username:  d.Username,
			User:      d.User,
			Amount:    &amount,
			Status:    string(d.Status),
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

func FromWithdrawals(withdrawals []domain.Withdrawal) []Source {
	out := make([]Source, 0, len(withdrawals))
	for _, w := range withdrawals {
		amount := w.Amount
		out = append(out, Source{
			SourceID:  w.ID,
			Username:  w.Username,
			User:      w.User,
			Amount:    &amount,
			Status:    string(w.Status),
			CreatedAt: w.CreatedAt,
		})
	}
	return out
}

func FromRegistrations(registrations []domain.Registration) []Source {
	out := make([]Source, 0, len(registrations))
	for _, r := range registrations {
		out = append(out, Source{
			SourceID:  r.UserID,
			Username:  r.Username,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// Merge tags each source with its type and orders the result newest first. Entries with
// equal dates keep input order: deposits, then withdrawals, then registrations.
func Merge(deposits, withdrawals, registrations []Source) []Entry {
	entries := make([]Entry, 0, len(deposits)+len(withdrawals)+len(registrations))
	entries = appendEntries(entries, TypeDeposit, deposits)
	entries = appendEntries(entries, TypeWithdrawal, withdrawals)
	entries = appendEntries(entries, TypeRegistration, registrations)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries
}

func appendEntries(entries []Entry, t EntryType, sources []Source) []Entry {
	for _, s := range sources {
		e := Entry{
			Type:     t,
			Username: username(s),
			Status:   s.Status,
			Date:     date(s),
			SourceID: s.SourceID,
		}
		if t != TypeRegistration {
			e.Amount = s.Amount
		}
		entries = append(entries, e)
	}
	return entries
}

func username(s Source) string {
	if s.Username != "" {
		return s.Username
	}
	if s.User != nil && s.User.Username != "" {
		return s.User.Username
	}
	return UnknownUsername
}

func date(s Source) time.Time {
	if !s.CreatedAt.IsZero() {
		return s.CreatedAt
	}
	return s.Date
}
