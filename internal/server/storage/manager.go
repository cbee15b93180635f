// Package storage wires the external account store: it opens the database,
// runs schema migrations, and hands out repositories bound to a connection
// or transaction handle.
package storage

import (
	"context"
	"database/sql"

	"github.com/dmartins/askgate/internal/dbx"
	"github.com/dmartins/askgate/internal/server/accounts"
)

type Manager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Accounts(db dbx.DBTX) accounts.Repository
	Close() error
}
