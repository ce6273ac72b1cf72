package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"churchportal/internal/database"
)

// Run describes one stored snapshot
type Run struct {
	ID          string
	Source      string
	TakenAt     time.Time
	RecordCount int
}

// Archiver stores snapshots in the archive database
type Archiver struct {
	db     *database.DB
	logger *slog.Logger
}

// NewArchiver creates an archiver; db must already be migrated
func NewArchiver(db *database.DB, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{db: db, logger: logger}
}

// table describes how one resource maps onto its mirror table
type table struct {
	name     string
	conflict []string
	columns  []string
	rows     [][]any
}

// Store upserts every record of snap in a single transaction and records the run.
// Records are keyed by id, so storing overlapping snapshots never duplicates rows.
func (a *Archiver) Store(snap *Snapshot) (*Run, error) {
	tables, err := tablesFor(snap)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:          uuid.NewString(),
		Source:      snap.Source,
		TakenAt:     snap.TakenAt,
		RecordCount: snap.Count(),
	}

	err = a.db.InTx(func(tx *database.Tx) error {
		for _, t := range tables {
			if err := writeTable(tx, t); err != nil {
				return err
			}
			a.logger.Debug("Archived table", "table", t.name, "rows", len(t.rows))
		}
		_, err := tx.Exec("INSERT INTO archive_runs (id, source, taken_at, record_count) VALUES (?, ?, ?, ?)",
			run.ID, run.Source, run.TakenAt, run.RecordCount)
		if err != nil {
			return fmt.Errorf("failed to record archive run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("Snapshot archived", "run", run.ID, "records", run.RecordCount)
	return run, nil
}

// Runs lists stored runs, newest first
func (a *Archiver) Runs() ([]Run, error) {
	rows, err := a.db.Query("SELECT id, source, taken_at, record_count FROM archive_runs ORDER BY taken_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query archive runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.TakenAt, &r.RecordCount); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func writeTable(tx database.DBTX, t table) error {
	query := tx.GetDialect().Upsert(t.name, t.conflict, t.columns)
	for _, row := range t.rows {
		if _, err := tx.Exec(query, row...); err != nil {
			return fmt.Errorf("failed to archive %s: %w", t.name, err)
		}
	}
	return nil
}

func tablesFor(snap *Snapshot) ([]table, error) {
	var (
		tables []table
		err    error
	)
	add := func(t table, records int, row func(i int) ([]any, error)) {
		if err != nil {
			return
		}
		for i := 0; i < records; i++ {
			var values []any
			if values, err = row(i); err != nil {
				err = fmt.Errorf("failed to encode %s: %w", t.name, err)
				return
			}
			t.rows = append(t.rows, values)
		}
		tables = append(tables, t)
	}
	byID := []string{"id"}

	add(table{name: "members", conflict: byID, columns: []string{"id", "name", "email", "family", "level", "status", "role", "payload"}},
		len(snap.Members), func(i int) ([]any, error) {
			m := snap.Members[i]
			return withPayload(m, m.ID, m.Name, m.Email, string(m.Family), string(m.Level), string(m.Status), string(m.Role))
		})
	add(table{name: "attendance", conflict: []string{"member_id", "sabbath_date"}, columns: []string{"member_id", "sabbath_date", "id", "family", "present", "payload"}},
		len(snap.Attendance), func(i int) ([]any, error) {
			r := snap.Attendance[i]
			return withPayload(r, r.MemberID, r.Date, r.ID, string(r.Family), r.Present)
		})
	add(table{name: "committee_meetings", conflict: byID, columns: []string{"id", "title", "meeting_date", "payload"}},
		len(snap.Committee), func(i int) ([]any, error) {
			m := snap.Committee[i]
			return withPayload(m, m.ID, m.Title, m.Date)
		})
	add(table{name: "choirs", conflict: byID, columns: []string{"id", "name", "payload"}},
		len(snap.Choirs), func(i int) ([]any, error) {
			c := snap.Choirs[i]
			return withPayload(c, c.ID, c.Name)
		})
	add(table{name: "choir_songs", conflict: []string{"choir_id", "id"}, columns: []string{"choir_id", "id", "title", "payload"}},
		len(snap.Songs), func(i int) ([]any, error) {
			s := snap.Songs[i]
			return withPayload(s, s.ChoirID, s.ID, s.Title)
		})
	add(table{name: "blog_posts", conflict: byID, columns: []string{"id", "title", "category", "payload"}},
		len(snap.Blog), func(i int) ([]any, error) {
			b := snap.Blog[i]
			return withPayload(b, b.ID, b.Title, string(b.Category))
		})
	add(table{name: "gallery_items", conflict: byID, columns: []string{"id", "title", "media_type", "payload"}},
		len(snap.Gallery), func(i int) ([]any, error) {
			g := snap.Gallery[i]
			return withPayload(g, g.ID, g.Title, string(g.MediaType))
		})
	add(table{name: "testimonies", conflict: byID, columns: []string{"id", "title", "is_approved", "payload"}},
		len(snap.Testimonies), func(i int) ([]any, error) {
			t := snap.Testimonies[i]
			return withPayload(t, t.ID, t.Title, t.IsApproved)
		})
	add(table{name: "resources", conflict: byID, columns: []string{"id", "title", "category", "payload"}},
		len(snap.Resources), func(i int) ([]any, error) {
			r := snap.Resources[i]
			return withPayload(r, r.ID, r.Title, string(r.Category))
		})

	return tables, err
}

// withPayload appends the JSON encoding of record to the indexed column values
func withPayload(record any, values ...any) ([]any, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(values, string(payload)), nil
}
