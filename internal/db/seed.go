package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed creates the bootstrap admin account and the default leave types.
// It is idempotent so it can run on every boot.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		hash, err := auth.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			return err
		}
		tag, err := pool.Exec(ctx, `
      INSERT INTO users (email, password_hash, role)
      VALUES ($1, $2, $3)
      ON CONFLICT (email) DO NOTHING
    `, cfg.SeedAdminEmail, hash, auth.RoleHR)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			slog.Info("seeded admin user", "email", cfg.SeedAdminEmail)
		}
	}

	leaveTypes := []struct {
		name    string
		quota   float64
		accrual float64
	}{
		{"annual", 20, 1.67},
		{"sick", 10, 0},
		{"unpaid", 0, 0},
	}
	for _, lt := range leaveTypes {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (name, annual_quota, accrual_per_month)
      VALUES ($1, $2, $3)
      ON CONFLICT (name) DO NOTHING
    `, lt.name, lt.quota, lt.accrual); err != nil {
			return err
		}
	}

	return nil
}
