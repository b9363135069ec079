package activityservice

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/investadmin/internal/activity"
	"github.com/GlebRadaev/investadmin/internal/domain"
)

//go:generate mockgen -source=activityservice.go -destination=mock_activityservice.go -package=activityservice

type DepositRepo interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Deposit, error)
	Scan(ctx context.Context, filter domain.DepositFilter) ([]domain.Deposit, error)
}

type WithdrawalRepo interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Withdrawal, error)
	Scan(ctx context.Context, filter domain.WithdrawalFilter) ([]domain.Withdrawal, error)
}

type UserRepo interface {
	ListRecentRegistrations(ctx context.Context, limit int) ([]domain.Registration, error)
	Count(ctx context.Context) (int64, error)
}

type AuditRepo interface {
	ListByRecord(ctx context.Context, recordType domain.RecordType, recordID int64) ([]domain.AuditEntry, error)
}

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int64, currency string) (*domain.Balance, error)
}

type Overview struct {
	Deposits    activity.DepositStats    `json:"deposits"`
	Withdrawals activity.WithdrawalStats `json:"withdrawals"`
	Users       int64                    `json:"users"`
}

type Service struct {
	deposits     DepositRepo
	withdrawals  WithdrawalRepo
	users        UserRepo
	audit        AuditRepo
	balances     BalanceRepo
	defaultLimit int
}

func New(deposits DepositRepo, withdrawals WithdrawalRepo, users UserRepo, audit AuditRepo, balances BalanceRepo, defaultLimit int) *Service {
	return &Service{
		deposits:     deposits,
		withdrawals:  withdrawals,
		users:        users,
		audit:        audit,
		balances:     balances,
		defaultLimit: defaultLimit,
	}
}

// Feed returns up to limit recent records of each kind merged newest first. A non-positive
// limit falls back to the configured window.
func (s *Service) Feed(ctx context.Context, limit int) ([]activity.Entry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	var (
		deposits      []domain.Deposit
		withdrawals   []domain.Withdrawal
		registrations []domain.Registration
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		deposits, err = s.deposits.ListRecent(ctx, limit)
		return err
	})
	g.Go(func() (err error) {
		withdrawals, err = s.withdrawals.ListRecent(ctx, limit)
		return err
	})
	g.Go(func() (err error) {
		registrations, err = s.users.ListRecentRegistrations(ctx, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("failed to load activity feed", zap.Error(err))
		return nil, domain.StoreError(err)
	}

	return activity.Merge(
		activity.FromDeposits(deposits),
		activity.FromWithdrawals(withdrawals),
		activity.FromRegistrations(registrations),
	), nil
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var (
		deposits    []domain.Deposit
		withdrawals []domain.Withdrawal
		users       int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		deposits, err = s.deposits.Scan(ctx, domain.DepositFilter{})
		return err
	})
	g.Go(func() (err error) {
		withdrawals, err = s.withdrawals.Scan(ctx, domain.WithdrawalFilter{})
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("failed to load overview", zap.Error(err))
		return nil, domain.StoreError(err)
	}

	return &Overview{
		Deposits:    activity.SummarizeDeposits(deposits),
		Withdrawals: activity.SummarizeWithdrawals(withdrawals),
		Users:       users,
	}, nil
}

// History lists the audit trail of one record, oldest first.
func (s *Service) History(ctx context.Context, recordType domain.RecordType, recordID int64) ([]domain.AuditEntry, error) {
	if recordType != domain.RecordDeposit && recordType != domain.RecordWithdrawal {
		return nil, fmt.Errorf("%w: unknown record type %q", domain.ErrValidation, recordType)
	}
	entries, err := s.audit.ListByRecord(ctx, recordType, recordID)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return entries, nil
}

func (s *Service) Balance(ctx context.Context, userID int64, currency string) (*domain.Balance, error) {
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", domain.ErrValidation)
	}
	balance, err := s.balances.GetUserBalance(ctx, userID, currency)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return balance, nil
}
