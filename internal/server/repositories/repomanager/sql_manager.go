// Package repomanager provides the RepositoryManager for the supported SQL
// drivers, wiring together repository constructors and database migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/keeper/internal/dbx"
	"github.com/dmitrijs2005/keeper/internal/server/migrations"
	"github.com/dmitrijs2005/keeper/internal/server/repositories/accounts"
)

// gooseDialects maps a database/sql driver name to its goose dialect.
var gooseDialects = map[string]string{
	dbx.DriverPostgres: "pgx",
	dbx.DriverSQLite:   "sqlite3",
}

// SQLRepositoryManager vends SQL-backed repository implementations and
// exposes a schema migration hook.
type SQLRepositoryManager struct {
	dialect string
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations runs the embedded migrations. Any failure is a
// *dbx.SetupError: the datastore is not usable as deployed.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(m.dialect); err != nil {
		return &dbx.SetupError{Op: "migrate", Err: err}
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return &dbx.SetupError{Op: "migrate", Err: err}
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for driver.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	dialect, ok := gooseDialects[driver]
	if !ok {
		return nil, &dbx.SetupError{Op: "open", Err: fmt.Errorf("unsupported driver %q", driver)}
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}
