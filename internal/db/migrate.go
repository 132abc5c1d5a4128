package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate runs a goose command ("up", "down", "status", ...) against the
// Postgres database behind db.
func Migrate(ctx context.Context, db *gorm.DB, command string, args ...string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db.DB -> %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose.SetDialect -> %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s -> %w", command, err)
	}

	zap.L().Info("migrations applied", zap.String("command", command))

	return nil
}
