package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect isolates what differs between the archive backends
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name from the configured path or URL
	DSN(config DialectConfig) (string, error)

	// RewriteQuery converts ? placeholders where the driver wants another form
	RewriteQuery(query string) string

	// ConfigureConnection sizes the pool for the backend
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the embedded migrations directory, e.g. "sqlite"
	MigrationsSubdir() string

	// SchemaMigrationsDDL creates the table recording applied migrations
	SchemaMigrationsDDL() string

	// BoolValue returns the SQL literal for b
	BoolValue(b bool) string

	// Upsert returns an insert of columns into table that overwrites the
	// non-key columns when a row with the same conflict columns exists
	Upsert(table string, conflict, columns []string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// Path of the sqlite file
	Path string

	// URL of the postgres or mysql server
	URL string
}

// pool is the connection pool shape of a server backend
type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// serverPool suits the short bursts of an archive run
var serverPool = pool{maxOpen: 8, maxIdle: 2, maxLifetime: 10 * time.Minute, maxIdleTime: time.Minute}

func (p pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	db.SetConnMaxIdleTime(p.maxIdleTime)
}

// numberPlaceholders turns ? into $1, $2, ... leaving quoted literals alone
func numberPlaceholders(query string) string {
	var (
		b       strings.Builder
		n       int
		inQuote bool
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insertInto builds "INSERT INTO table (a, b) VALUES (?, ?)"
func insertInto(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
}

// updatable returns the columns that are not part of the conflict key
func updatable(conflict, columns []string) []string {
	key := make(map[string]bool, len(conflict))
	for _, c := range conflict {
		key[c] = true
	}
	var out []string
	for _, c := range columns {
		if !key[c] {
			out = append(out, c)
		}
	}
	return out
}

// upsertOnConflict is the ON CONFLICT form shared by sqlite and postgres
func upsertOnConflict(table string, conflict, columns []string) string {
	sets := make([]string, 0, len(columns))
	for _, c := range updatable(conflict, columns) {
		sets = append(sets, c+" = excluded."+c)
	}
	q := insertInto(table, columns) + " ON CONFLICT (" + strings.Join(conflict, ", ") + ")"
	if len(sets) == 0 {
		return q + " DO NOTHING"
	}
	return q + " DO UPDATE SET " + strings.Join(sets, ", ")
}
