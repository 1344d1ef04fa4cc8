package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/keeper/internal/dbx"
	"github.com/dmitrijs2005/keeper/internal/server/repositories/accounts"
)

// RepositoryManager hands out repositories bound to a pool or a transaction
// and owns the schema. Implementations know the SQL dialect of one driver.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
