package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/server/migrations"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/contacts"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/tokenblocklist"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves both PostgreSQL and SQLite. The repositories
// share one SQL dialect; only migrations differ.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewRepositoryManager returns a manager for the given dialect.
func NewRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	if _, _, err := gooseTarget(dialect); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) TokenBlocklist(db dbx.DBTX) tokenblocklist.Repository {
	return tokenblocklist.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Contacts(db dbx.DBTX) contacts.Repository {
	return contacts.NewSQLRepository(db)
}

// gooseUp is a seam for testing; it applies every pending migration in fsys.
var gooseUp = func(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

func gooseTarget(dialect dbx.Dialect) (goose.Dialect, string, error) {
	switch dialect {
	case dbx.DialectPostgres:
		return goose.DialectPostgres, "postgres", nil
	case dbx.DialectSQLite:
		return goose.DialectSQLite3, "sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseDialect, dir, err := gooseTarget(m.dialect)
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrations.Migrations, dir)
	if err != nil {
		return err
	}

	if err := gooseUp(ctx, db, gooseDialect, fsys); err != nil {
		return fmt.Errorf("migrate %s: %w", m.dialect, err)
	}
	return nil
}
