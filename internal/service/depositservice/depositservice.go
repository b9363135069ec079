package depositservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/metrics"
	"github.com/GlebRadaev/investadmin/internal/pg"
)

//go:generate mockgen -source=depositservice.go -destination=mock_depositservice.go -package=depositservice

type Repo interface {
	Get(ctx context.Context, id int64) (*domain.Deposit, error)
	CompareAndSwapStatus(ctx context.Context, expected domain.DepositStatus, deposit *domain.Deposit) error
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, filter domain.DepositFilter) ([]domain.Deposit, error)
}

type AuditRepo interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, kind domain.EventKind, payload map[string]any)
}

type Service struct {
	repo           Repo
	audit          AuditRepo
	txManager      pg.TXManager
	notifier       Notifier
	approvedStatus domain.DepositStatus
	now            func() time.Time
}

// New builds the deposit lifecycle manager. approvedStatus is the deployment's choice
// between approved and active for admin-approved deposits.
func New(repo Repo, audit AuditRepo, txManager pg.TXManager, notifier Notifier, approvedStatus domain.DepositStatus) *Service {
	return &Service{
		repo:           repo,
		audit:          audit,
		txManager:      txManager,
		notifier:       notifier,
		approvedStatus: approvedStatus,
		now:            time.Now,
	}
}

func (s *Service) Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Deposit, error) {
	var updated *domain.Deposit
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		current, err := s.pending(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		next.Status = s.approvedStatus
		next.ApprovedAt = domain.Stamp(s.now())
		if err := s.swap(ctx, actor, current, &next, "approve"); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	metrics.ObserveTransition(domain.RecordDeposit, "approve", err)
	if err != nil {
		return nil, err
	}

	zap.L().Info("deposit approved",
		zap.Int64("id", id), zap.Int64("actorID", actor.ID), zap.String("status", string(updated.Status)))
	s.notifier.Notify(ctx, updated.UserID, domain.EventDepositApproved, map[string]any{
		"depositId": updated.ID,
		"amount":    updated.Amount.String(),
		"currency":  updated.Currency,
		"plan":      updated.Plan,
	})
	return updated, nil
}

func (s *Service) Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Deposit, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		metrics.ObserveTransition(domain.RecordDeposit, "reject", domain.ErrValidation)
		return nil, fmt.Errorf("%w: reject reason is required", domain.ErrValidation)
	}

	var updated *domain.Deposit
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		current, err := s.pending(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		next.Status = domain.DepositRejected
		next.RejectReason = reason
		if err := s.swap(ctx, actor, current, &next, "reject"); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	metrics.ObserveTransition(domain.RecordDeposit, "reject", err)
	if err != nil {
		return nil, err
	}

	zap.L().Info("deposit rejected", zap.Int64("id", id), zap.Int64("actorID", actor.ID))
	s.notifier.Notify(ctx, updated.UserID, domain.EventDepositRejected, map[string]any{
		"depositId": updated.ID,
		"amount":    updated.Amount.String(),
		"currency":  updated.Currency,
		"reason":    reason,
	})
	return updated, nil
}

// Delete purges the deposit whatever its status. It is not a lifecycle transition and
// cannot be undone.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return domain.StoreError(err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return domain.StoreError(err)
		}
		return domain.StoreError(s.audit.Record(ctx, &domain.AuditEntry{
			ActorID:    actor.ID,
			RecordType: domain.RecordDeposit,
			RecordID:   id,
			Action:     "delete",
			FromStatus: string(current.Status),
			CreatedAt:  s.now(),
		}))
	})
	metrics.ObserveTransition(domain.RecordDeposit, "delete", err)
	if err != nil {
		return err
	}

	zap.L().Warn("deposit purged", zap.Int64("id", id), zap.Int64("actorID", actor.ID))
	return nil
}

func (s *Service) List(ctx context.Context, filter domain.DepositFilter) ([]domain.Deposit, error) {
	deposits, err := s.repo.Scan(ctx, filter)
	if err != nil {
		zap.L().Error("failed to list deposits", zap.Error(err))
		return nil, domain.StoreError(err)
	}
	return deposits, nil
}

func (s *Service) pending(ctx context.Context, id int64) (*domain.Deposit, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	if current.Status != domain.DepositPending {
		return nil, fmt.Errorf("%w: deposit %d is %s, want %s",
			domain.ErrInvalidTransition, id, current.Status, domain.DepositPending)
	}
	return current, nil
}

func (s *Service) swap(ctx context.Context, actor domain.Actor, current, next *domain.Deposit, action string) error {
	if err := s.repo.CompareAndSwapStatus(ctx, current.Status, next); err != nil {
		return domain.StoreError(err)
	}
	return domain.StoreError(s.audit.Record(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		RecordType: domain.RecordDeposit,
		RecordID:   next.ID,
		Action:     action,
		FromStatus: string(current.Status),
		ToStatus:   string(next.Status),
		Reason:     next.RejectReason,
		CreatedAt:  s.now(),
	}))
}
