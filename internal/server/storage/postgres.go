package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmartins/askgate/internal/dbx"
	"github.com/dmartins/askgate/internal/server/accounts"
	"github.com/dmartins/askgate/internal/server/storage/migrations"
)

type PostgresManager struct {
	db *sql.DB
}

// NewPostgresManager opens a pooled connection source for the given DSN.
// Connectivity is not checked here; the first migration run will surface an
// unreachable database.
func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &PostgresManager{db: db}, nil
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}
