package database

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteOptions are applied by go-sqlite3 on every new connection
const sqliteOptions = "_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

// SQLiteDialect archives into a local file through go-sqlite3
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

func (d *SQLiteDialect) MigrationsSubdir() string { return "sqlite" }

// DSN turns the file path into a URI carrying the connection options
func (d *SQLiteDialect) DSN(config DialectConfig) (string, error) {
	if config.Path == "" {
		return "", errors.New("sqlite archive needs a file path")
	}
	if config.Path == ":memory:" || strings.HasPrefix(config.Path, "file:") {
		return config.Path, nil
	}
	return "file:" + config.Path + "?" + sqliteOptions, nil
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

// ConfigureConnection keeps a single connection; sqlite has one writer
func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(1)
	return nil
}

func (d *SQLiteDialect) SchemaMigrationsDDL() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}

func (d *SQLiteDialect) BoolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (d *SQLiteDialect) Upsert(table string, conflict, columns []string) string {
	return upsertOnConflict(table, conflict, columns)
}
