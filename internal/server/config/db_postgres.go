package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenPostgres открывает подключение к PostgreSQL (драйвер pgx),
// настраивает пул, проверяет доступность базы и, если включено,
// применяет миграции.
//
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func OpenPostgres(ctx context.Context, dbCfg DBConfig, migCfg MigrationsConfig, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbCfg.DSN)
	if err != nil {
		log.Error("error to connect db", zap.Error(err))
		return nil, err
	}

	if dbCfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}
	if dbCfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	if dbCfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}
	if dbCfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(dbCfg.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		log.Error("error check db connection", zap.Error(err))
		_ = db.Close()
		return nil, err
	}

	if migCfg.Enabled {
		if err = RunMigrations(db, migCfg.Path); err != nil {
			log.Error("error applying migrations", zap.Error(err))
			_ = db.Close()
			return nil, err
		}
		log.Info("migrations applied successfully")
	}

	return db, nil
}

// RunMigrations применяет миграции из source (например file://migrations/postgres).
func RunMigrations(db *sql.DB, source string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("создание драйвера миграций: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("создание миграций: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
