// Package db wires the server's PostgreSQL connection, repositories, and
// schema migrations together.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/motordesk/internal/server/migrations"
	"github.com/dmitrijs2005/motordesk/internal/server/repositories/vehicles"
)

type PostgresRepositoryManager struct {
	db       *sql.DB
	vehicles vehicles.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Vehicles() vehicles.Repository {
	return m.vehicles
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:       db,
		vehicles: vehicles.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
