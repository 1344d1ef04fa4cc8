package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/keeper/internal/common"
	"github.com/dmitrijs2005/keeper/internal/dbx"
	"github.com/dmitrijs2005/keeper/internal/server/models"
)

// SQLRepository works against both supported drivers; the queries stick to
// SQL both PostgreSQL and SQLite accept.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

var newID = uuid.NewString

func (r *SQLRepository) Create(ctx context.Context, acc *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, handle, name, password_hash)
		 VALUES ($1, $2, $3, $4)
		 `

	id := newID()
	if _, err := r.db.ExecContext(ctx, query, id, acc.Handle, acc.Name, acc.PasswordHash); err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrHandleTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	acc.ID = id
	return acc, nil
}

func (r *SQLRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	query :=
		`SELECT id, handle, name, password_hash, created_at FROM accounts
		 WHERE handle = $1
		 `
	return r.getOne(ctx, query, handle)
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, handle, name, password_hash, created_at FROM accounts
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	acc := &models.Account{}
	var name sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&acc.ID, &acc.Handle, &name, &acc.PasswordHash, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if name.Valid {
		acc.Name = &name.String
	}
	return acc, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
