// Package repomanager opens the server's PostgreSQL database, applies the
// embedded migrations and hands out repositories bound to a connection or a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/eurisssow03/wc-helper-sub001/internal/dbx"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
