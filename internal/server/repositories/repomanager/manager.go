// Package repomanager vends repositories bound to a *sql.DB or *sql.Tx and
// runs the embedded goose migrations for the active dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/contacts"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/tokenblocklist"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	TokenBlocklist(db dbx.DBTX) tokenblocklist.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
