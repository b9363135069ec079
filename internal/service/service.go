package service

import (
	"github.com/GlebRadaev/investadmin/internal/config"
	"github.com/GlebRadaev/investadmin/internal/handlers/activity"
	"github.com/GlebRadaev/investadmin/internal/handlers/deposits"
	"github.com/GlebRadaev/investadmin/internal/handlers/withdrawals"
	"github.com/GlebRadaev/investadmin/internal/pg"
	"github.com/GlebRadaev/investadmin/internal/repo"
	"github.com/GlebRadaev/investadmin/internal/service/activityservice"
	"github.com/GlebRadaev/investadmin/internal/service/depositservice"
	"github.com/GlebRadaev/investadmin/internal/service/withdrawalservice"
)

type Services struct {
	DepositService    deposits.Service
	WithdrawalService withdrawals.Service
	ActivityService   activity.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, notifier depositservice.Notifier) *Services {
	return &Services{
		DepositService: depositservice.New(repo.DepositRepo, repo.AuditRepo, txManager, notifier, cfg.ApprovedStatus()),
		WithdrawalService: withdrawalservice.New(
			repo.WithdrawalRepo, repo.BalanceRepo, repo.AuditRepo, txManager, notifier),
		ActivityService: activityservice.New(
			repo.DepositRepo, repo.WithdrawalRepo, repo.UserRepo, repo.AuditRepo, repo.BalanceRepo, cfg.ActivityLimit),
	}
}
