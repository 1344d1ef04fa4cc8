package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported driver names for Open.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// SetupError marks a failure on the datastore construction path: opening the
// pool, the first ping, or schema migrations. It signals a deployment problem
// rather than a runtime incident.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("datastore %s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// pingTimeout bounds the initial connectivity check.
var pingTimeout = 5 * time.Second

// Open opens a pool for driver/dsn and verifies it with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, &SetupError{Op: "open", Err: fmt.Errorf("unsupported driver %q", driver)}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &SetupError{Op: "open", Err: err}
	}

	if driver == DriverSQLite {
		// a single connection keeps in-memory databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &SetupError{Op: "ping", Err: err}
	}

	return db, nil
}
