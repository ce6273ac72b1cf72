package database

import (
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsCreateArchiveTables(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error: %v", err)
	}
	// running again is a no-op
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations() error: %v", err)
	}

	tables := []string{"archive_runs", "members", "attendance", "committee_meetings", "choirs",
		"choir_songs", "blog_posts", "gallery_items", "testimonies", "resources"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	var version string
	if err := db.QueryRow("SELECT version FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("read schema_migrations: %v", err)
	}
	if version != "001_archive" {
		t.Errorf("recorded version = %q, want 001_archive", version)
	}
}

func TestAttendanceUpsertKeepsOneRowPerMemberAndDate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error: %v", err)
	}

	columns := []string{"member_id", "sabbath_date", "id", "family", "present", "payload"}
	upsert := db.Dialect.Upsert("attendance", []string{"member_id", "sabbath_date"}, columns)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(upsert, "m1", "2024-03-02", "a1", "Ebenezer", false, "{}"); err != nil {
		tx.Rollback()
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := tx.Exec(upsert, "m1", "2024-03-02", "a2", "Ebenezer", true, "{}"); err != nil {
		tx.Rollback()
		t.Fatalf("second upsert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var (
		count   int
		id      string
		present bool
	)
	if err := db.QueryRow("SELECT COUNT(*) FROM attendance").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("attendance rows = %d, want 1", count)
	}
	if err := db.QueryRow("SELECT id, present FROM attendance WHERE member_id = ?", "m1").Scan(&id, &present); err != nil {
		t.Fatal(err)
	}
	if id != "a2" || !present {
		t.Errorf("row = (%s, %v), want (a2, true)", id, present)
	}

	var approved int
	query := "SELECT COUNT(*) FROM testimonies WHERE is_approved = " + db.Dialect.BoolValue(true)
	if err := db.QueryRow(query).Scan(&approved); err != nil {
		t.Fatalf("bool literal query: %v", err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error: %v", err)
	}

	boom := errors.New("boom")
	err := db.InTx(func(tx *Tx) error {
		if _, err := tx.Exec("INSERT INTO choirs (id, name, payload) VALUES (?, ?, ?)", "c1", "Voices", "{}"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want boom", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM choirs").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("choirs = %d after rollback, want 0", count)
	}
}

func TestRunMigrationsFSAppliesInOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	fsys := fstest.MapFS{
		"002_seed.sql":  {Data: []byte("INSERT INTO notes (body) VALUES ('second');")},
		"001_notes.sql": {Data: []byte("-- first\nCREATE TABLE notes (body TEXT);")},
	}
	if err := db.RunMigrationsFS(fsys); err != nil {
		t.Fatalf("RunMigrationsFS() error: %v", err)
	}
	if err := db.RunMigrationsFS(fsys); err != nil {
		t.Fatalf("second RunMigrationsFS() error: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("notes = %d, want 1", count)
	}
}
