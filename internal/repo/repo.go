package repo

import (
	"github.com/GlebRadaev/investadmin/internal/pg"
	auditrepo "github.com/GlebRadaev/investadmin/internal/repo/audit-repo"
	balancerepo "github.com/GlebRadaev/investadmin/internal/repo/balance-repo"
	depositrepo "github.com/GlebRadaev/investadmin/internal/repo/deposit-repo"
	userrepo "github.com/GlebRadaev/investadmin/internal/repo/user-repo"
	withdrawalrepo "github.com/GlebRadaev/investadmin/internal/repo/withdrawal-repo"
)

type Repositories struct {
	UserRepo       *userrepo.Repository
	DepositRepo    *depositrepo.Repository
	WithdrawalRepo *withdrawalrepo.Repository
	BalanceRepo    *balancerepo.Repository
	AuditRepo      *auditrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:       userrepo.New(conn),
		DepositRepo:    depositrepo.New(conn),
		WithdrawalRepo: withdrawalrepo.New(conn),
		BalanceRepo:    balancerepo.New(conn),
		AuditRepo:      auditrepo.New(conn),
	}
}
