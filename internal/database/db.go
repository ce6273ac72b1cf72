// Package database is the offline archive store. It speaks sqlite, postgres
// and mysql through one Dialect and ships its schema as embedded migrations.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	"churchportal/internal/config"
)

// DB wraps the database connection with dialect support
type DB struct {
	*sql.DB
	Dialect Dialect
}

// OpenSQLite opens a sqlite archive at path
func OpenSQLite(path string) (*DB, error) {
	return Open(config.DatabaseConfig{Type: "sqlite", Path: path})
}

// Open connects to the archive described by cfg and verifies the connection
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dialect, dialectConfig, err := dialectFor(cfg)
	if err != nil {
		return nil, err
	}
	dsn, err := dialect.DSN(dialectConfig)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s archive: %w", dialect.DriverName(), err)
	}
	if err := dialect.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s archive: %w", dialect.DriverName(), err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func dialectFor(cfg config.DatabaseConfig) (Dialect, DialectConfig, error) {
	switch strings.ToLower(cfg.Type) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), DialectConfig{URL: cfg.URL}, nil
	case "mysql", "mariadb":
		return NewMySQLDialect(), DialectConfig{URL: cfg.URL}, nil
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), DialectConfig{Path: cfg.Path}, nil
	default:
		return nil, DialectConfig{}, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.DB.Query(db.Dialect.RewriteQuery(query), args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
}

func (db *DB) GetDialect() Dialect {
	return db.Dialect
}
