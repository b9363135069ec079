package userrepo

import (
	"context"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (repo *Repository) ListRecentRegistrations(ctx context.Context, limit int) ([]domain.Registration, error) {
	query := `
		SELECT id, username, status, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := repo.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get recent registrations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var registrations []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(&reg.UserID, &reg.Username, &reg.Status, &reg.CreatedAt); err != nil {
			zap.L().Error("can't scan registration row", zap.Error(err))
			return nil, err
		}
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (repo *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := repo.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		zap.L().Error("can't count users", zap.Error(err))
		return 0, err
	}
	return total, nil
}
