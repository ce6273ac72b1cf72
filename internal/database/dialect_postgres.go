package database

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
)

// PostgresDialect archives into PostgreSQL through lib/pq
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) MigrationsSubdir() string { return "postgres" }

// DSN passes the URL through; lib/pq accepts both URLs and key=value strings
func (d *PostgresDialect) DSN(config DialectConfig) (string, error) {
	if config.URL == "" {
		return "", errors.New("postgres archive needs DATABASE_URL")
	}
	return config.URL, nil
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	return numberPlaceholders(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	serverPool.apply(db)
	return nil
}

func (d *PostgresDialect) SchemaMigrationsDDL() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}

func (d *PostgresDialect) BoolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (d *PostgresDialect) Upsert(table string, conflict, columns []string) string {
	return upsertOnConflict(table, conflict, columns)
}
