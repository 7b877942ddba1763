package storage

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultMigrationsPath is where the schema migrations live, relative to the
// working directory of the binaries.
const DefaultMigrationsPath = "migrations"

// DB wraps a pgxpool.Pool and provides repository methods for users,
// exercises, splits, templates, drafts and completed sessions.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a connection pool against the liftlog database and verifies it
// is reachable.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening liftlog pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging liftlog database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies all pending schema migrations from migrationsPath,
// falling back to DefaultMigrationsPath when it is empty.
func RunMigrations(dsn, migrationsPath string) error {
	if migrationsPath == "" {
		migrationsPath = DefaultMigrationsPath
	}
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("preparing schema migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying schema migrations: %w", err)
	}
	return nil
}
