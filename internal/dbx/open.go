package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// driver names registered by the imported database/sql drivers
const (
	pgxDriverName    = "pgx"
	sqliteDriverName = "sqlite"
)

// sqlitePragmas are appended to every SQLite DSN. Timestamps are written in
// the SQLite text format so that they compare correctly as strings.
var sqlitePragmas = []string{
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(1)",
	"_time_format=sqlite",
}

// ParseDSN maps a connection string to its dialect and the data source name
// understood by the matching driver.
//
// Accepted forms:
//
//	postgres://... | postgresql://...   PostgreSQL via pgx
//	sqlite://path/to/file.db            SQLite file
//	file:path?opts | :memory:           SQLite, passed through
func ParseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("empty sqlite path in dsn %q", dsn)
		}
		return DialectSQLite, withSQLitePragmas("file:" + path), nil
	case strings.HasPrefix(dsn, "file:"):
		return DialectSQLite, withSQLitePragmas(dsn), nil
	case dsn == ":memory:":
		return DialectSQLite, withSQLitePragmas("file::memory:"), nil
	default:
		return "", "", fmt.Errorf("unsupported dsn %q", dsn)
	}
}

func withSQLitePragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(sqlitePragmas, "&")
}

// Open parses dsn, opens a pool with the matching driver and verifies it
// with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	driver := pgxDriverName
	if dialect == DialectSQLite {
		driver = sqliteDriverName
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", err
	}

	// each connection to an in-memory SQLite database sees its own schema
	if dialect == DialectSQLite && strings.Contains(source, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping: %w", err)
	}

	return db, dialect, nil
}
