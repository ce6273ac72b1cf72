package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect archives into MySQL or MariaDB through go-sql-driver
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) MigrationsSubdir() string { return "mysql" }

// DSN accepts a driver DSN with or without a mysql:// prefix and forces
// DATETIME columns to scan as UTC time.Time
func (d *MySQLDialect) DSN(config DialectConfig) (string, error) {
	if config.URL == "" {
		return "", errors.New("mysql archive needs DATABASE_URL")
	}
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(config.URL, "mysql://"))
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	serverPool.apply(db)
	return nil
}

func (d *MySQLDialect) SchemaMigrationsDDL() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`
}

func (d *MySQLDialect) BoolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Upsert uses ON DUPLICATE KEY UPDATE, which MySQL matches on any unique key
func (d *MySQLDialect) Upsert(table string, conflict, columns []string) string {
	cols := updatable(conflict, columns)
	if len(cols) == 0 {
		cols = conflict[:1]
	}
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		sets = append(sets, c+" = VALUES("+c+")")
	}
	return insertInto(table, columns) + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}
