package app

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/medzap/HMS-BookingService/migrations"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// RunMigrations применяет встроенные goose миграции к базе данных
// Вызывается при старте сервиса до инициализации репозиториев
func RunMigrations(db *sql.DB, log Logger) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("app: failed to set goose dialect: %w", err)
	}

	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("app: failed to get current migration version: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("app: failed to apply migrations: %w", err)
	}

	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("app: failed to get migration version: %w", err)
	}

	if after == before {
		log.Info("Migrations: database schema is up to date (version %d)", after)
	} else {
		log.Info("Migrations: schema migrated from version %d to %d", before, after)
	}
	return nil
}
