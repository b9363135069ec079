package withdrawalservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/metrics"
	"github.com/GlebRadaev/investadmin/internal/pg"
)

//go:generate mockgen -source=withdrawalservice.go -destination=mock_withdrawalservice.go -package=withdrawalservice

type Repo interface {
	Get(ctx context.Context, id int64) (*domain.Withdrawal, error)
	CompareAndSwapStatus(ctx context.Context, expected domain.WithdrawalStatus, withdrawal *domain.Withdrawal) error
	Scan(ctx context.Context, filter domain.WithdrawalFilter) ([]domain.Withdrawal, error)
}

type Ledger interface {
	Debit(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error
	Credit(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error
}

type AuditRepo interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, kind domain.EventKind, payload map[string]any)
}

type Service struct {
	repo      Repo
	ledger    Ledger
	audit     AuditRepo
	txManager pg.TXManager
	notifier  Notifier
	now       func() time.Time
}

func New(repo Repo, ledger Ledger, audit AuditRepo, txManager pg.TXManager, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		audit:     audit,
		txManager: txManager,
		notifier:  notifier,
		now:       time.Now,
	}
}

type transition struct {
	action string
	guard  func(domain.WithdrawalStatus) bool
	apply  func(w *domain.Withdrawal, now time.Time)
	debit  bool
	// refund credits the amount back when the transition leaves a debited state.
	refund bool
	reason string
	event  domain.EventKind
}

func (s *Service) Confirm(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
	return s.run(ctx, actor, id, transition{
		action: "confirm",
		guard:  domain.CanConfirm,
		apply: func(w *domain.Withdrawal, now time.Time) {
			w.Status = domain.WithdrawalConfirmed
			w.ConfirmedAt = domain.Stamp(now)
		},
		event: domain.EventWithdrawalConfirmed,
	})
}

// Approve moves the withdrawal to approved and debits the owner's balance. Both writes
// share one transaction: a failed debit leaves the status untouched.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
	return s.run(ctx, actor, id, transition{
		action: "approve",
		guard:  domain.CanApproveOrReject,
		apply: func(w *domain.Withdrawal, now time.Time) {
			w.Status = domain.WithdrawalApproved
			w.ApprovedAt = domain.Stamp(now, w.ConfirmedAt)
		},
		debit: true,
		event: domain.EventWithdrawalApproved,
	})
}

// Reject never touches the ledger. Its guard excludes approved and processing, the only
// states in which funds have already left the balance.
func (s *Service) Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Withdrawal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		metrics.ObserveTransition(domain.RecordWithdrawal, "reject", domain.ErrValidation)
		return nil, fmt.Errorf("%w: reject reason is required", domain.ErrValidation)
	}
	return s.run(ctx, actor, id, transition{
		action: "reject",
		guard:  domain.CanApproveOrReject,
		apply: func(w *domain.Withdrawal, _ time.Time) {
			w.Status = domain.WithdrawalRejected
			w.RejectReason = reason
		},
		event: domain.EventWithdrawalRejected,
	})
}

func (s *Service) StartProcessing(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
	return s.run(ctx, actor, id, transition{
		action: "process",
		guard:  domain.CanStartProcessing,
		apply: func(w *domain.Withdrawal, _ time.Time) {
			w.Status = domain.WithdrawalProcessing
		},
		event: domain.EventWithdrawalProcessed,
	})
}

// Complete records the on-chain proof of payout.
func (s *Service) Complete(ctx context.Context, actor domain.Actor, id int64, transactionHash string) (*domain.Withdrawal, error) {
	transactionHash = strings.TrimSpace(transactionHash)
	if transactionHash == "" {
		metrics.ObserveTransition(domain.RecordWithdrawal, "complete", domain.ErrValidation)
		return nil, fmt.Errorf("%w: transaction hash is required", domain.ErrValidation)
	}
	return s.run(ctx, actor, id, transition{
		action: "complete",
		guard:  domain.CanComplete,
		apply: func(w *domain.Withdrawal, now time.Time) {
			w.Status = domain.WithdrawalCompleted
			w.TransactionHash = transactionHash
			w.CompletedAt = domain.Stamp(now, w.ConfirmedAt, w.ApprovedAt)
		},
		event: domain.EventWithdrawalCompleted,
	})
}

// Cancel withdraws the request on the user's behalf. Cancelling after approval returns the
// debited amount to the balance in the same transaction.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Withdrawal, error) {
	return s.run(ctx, actor, id, transition{
		action: "cancel",
		guard:  domain.CanCancel,
		apply: func(w *domain.Withdrawal, _ time.Time) {
			w.Status = domain.WithdrawalCancelled
		},
		refund: true,
		reason: strings.TrimSpace(reason),
		event:  domain.EventWithdrawalCancelled,
	})
}

func (s *Service) List(ctx context.Context, filter domain.WithdrawalFilter) ([]domain.Withdrawal, error) {
	withdrawals, err := s.repo.Scan(ctx, filter)
	if err != nil {
		zap.L().Error("failed to list withdrawals", zap.Error(err))
		return nil, domain.StoreError(err)
	}
	return withdrawals, nil
}

func (s *Service) run(ctx context.Context, actor domain.Actor, id int64, t transition) (*domain.Withdrawal, error) {
	var updated *domain.Withdrawal
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return domain.StoreError(err)
		}
		if !t.guard(current.Status) {
			return fmt.Errorf("%w: cannot %s withdrawal %d in status %s",
				domain.ErrInvalidTransition, t.action, id, current.Status)
		}

		next := *current
		t.apply(&next, s.now())

		if err := s.repo.CompareAndSwapStatus(ctx, current.Status, &next); err != nil {
			return domain.StoreError(err)
		}
		if t.debit {
			if err := s.ledger.Debit(ctx, next.UserID, next.Amount, next.Currency); err != nil {
				return domain.LedgerError(err)
			}
		}
		if t.refund && domain.IsDebited(current.Status) {
			if err := s.ledger.Credit(ctx, next.UserID, next.Amount, next.Currency); err != nil {
				return domain.LedgerError(err)
			}
		}
		reason := next.RejectReason
		if reason == "" {
			reason = t.reason
		}
		err = s.audit.Record(ctx, &domain.AuditEntry{
			ActorID:    actor.ID,
			RecordType: domain.RecordWithdrawal,
			RecordID:   id,
			Action:     t.action,
			FromStatus: string(current.Status),
			ToStatus:   string(next.Status),
			Reason:     reason,
			CreatedAt:  s.now(),
		})
		if err != nil {
			return domain.StoreError(err)
		}
		updated = &next
		return nil
	})
	metrics.ObserveTransition(domain.RecordWithdrawal, t.action, err)
	if err != nil {
		zap.L().Info("withdrawal transition refused",
			zap.Int64("id", id), zap.String("action", t.action), zap.Int64("actorID", actor.ID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("withdrawal transitioned",
		zap.Int64("id", id), zap.String("action", t.action), zap.String("status", string(updated.Status)),
		zap.Int64("actorID", actor.ID))
	s.notifier.Notify(ctx, updated.UserID, t.event, payload(updated))
	return updated, nil
}

func payload(w *domain.Withdrawal) map[string]any {
	p := map[string]any{
		"withdrawalId":  w.ID,
		"amount":        w.Amount.String(),
		"currency":      w.Currency,
		"walletAddress": w.WalletAddress,
		"status":        string(w.Status),
	}
	if w.TransactionHash != "" {
		p["transactionHash"] = w.TransactionHash
	}
	if w.RejectReason != "" {
		p["reason"] = w.RejectReason
	}
	return p
}
