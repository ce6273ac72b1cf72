package snapshot

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchportal/internal/apiclient"
	"churchportal/internal/apitest"
	"churchportal/internal/database"
	"churchportal/internal/logger"
	"churchportal/internal/models"
	"churchportal/internal/service"
)

func seededServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(t)
	srv.Seed("members",
		models.Member{ID: "m1", Name: "Ama", Family: models.FamilyEbenezer, Level: models.LevelY1, Role: models.RoleMember},
		models.Member{ID: "m2", Name: "Kwame", Family: models.FamilyJehovaNissi, Level: models.LevelY3, Role: models.RoleFather},
	)
	srv.Seed("attendance",
		models.SabbathAttendance{ID: "a1", MemberID: "m1", Family: models.FamilyEbenezer, Date: "2024-03-02", Present: true},
		models.SabbathAttendance{ID: "a2", MemberID: "m2", Family: models.FamilyJehovaNissi, Date: "2024-03-02"},
	)
	srv.Seed("committee", models.CommitteeMeeting{ID: "cm1", Title: "Planning", Date: "2024-03-05"})
	srv.Seed("choir",
		models.Choir{ID: "c1", Name: "Voices of Praise"},
		models.Choir{ID: "c2", Name: "Youth Choir"},
	)
	srv.Seed("choir/c1/songs",
		models.ChoirSong{ID: "s1", ChoirID: "c1", Title: "Amazing Grace"},
		models.ChoirSong{ID: "s2", ChoirID: "c1", Title: "It Is Well"},
	)
	srv.Seed("choir/c2/songs", models.ChoirSong{ID: "s1", ChoirID: "c2", Title: "Blessed Assurance"})
	srv.Seed("blog", models.Blog{ID: "b1", Title: "Welcome", Category: models.BlogAnnouncement})
	srv.Seed("gallery", models.GalleryItem{ID: "g1", Title: "Retreat", MediaType: models.MediaImage})
	srv.Seed("testimonies",
		models.Testimony{ID: "t1", Title: "Healing", IsApproved: true},
		models.Testimony{ID: "t2", Title: "Provision"},
	)
	srv.Seed("resources", models.Resource{ID: "r1", Title: "Daniel Study", Category: models.ResourceBibleStudy})
	return srv
}

func newExporter(srv *apitest.Server) *Exporter {
	e := NewExporter(service.New(srv.Client()), "test", logger.Discard())
	e.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestTakeFetchesEveryResource(t *testing.T) {
	srv := seededServer(t)

	snap, err := newExporter(srv).Take(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Version, snap.Version)
	assert.Equal(t, "test", snap.Source)
	assert.Len(t, snap.Members, 2)
	assert.Len(t, snap.Attendance, 2)
	assert.Len(t, snap.Committee, 1)
	assert.Len(t, snap.Choirs, 2)
	assert.Len(t, snap.Blog, 1)
	assert.Len(t, snap.Gallery, 1)
	assert.Len(t, snap.Testimonies, 2, "approved and pending testimonies are both included")
	assert.Len(t, snap.Resources, 1)
	require.Len(t, snap.Songs, 3)
	assert.Equal(t, "c1", snap.Songs[0].ChoirID, "songs keep choir order")
	assert.Equal(t, "c2", snap.Songs[2].ChoirID)
	assert.Equal(t, 15, snap.Count())

	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/choir/c1/songs"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/choir/c2/songs"))
}

func TestTakeFailsWhenAnyResourceFails(t *testing.T) {
	srv := seededServer(t)
	srv.FailNext(http.StatusInternalServerError, `{"message":"database offline"}`)

	snap, err := newExporter(srv).Take(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestWriteThenRead(t *testing.T) {
	srv := seededServer(t)
	snap, err := newExporter(srv).Take(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))

	restored, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap.Count(), restored.Count())
	assert.True(t, snap.TakenAt.Equal(restored.TakenAt))
	assert.Equal(t, "Amazing Grace", restored.Songs[0].Title)
}

func TestExportWritesFile(t *testing.T) {
	srv := seededServer(t)
	out := filepath.Join(t.TempDir(), "nested", "snapshot.json")

	snap, err := newExporter(srv).Export(context.Background(), out)
	require.NoError(t, err)

	restored, err := ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, snap.Count(), restored.Count())
}

func TestReadRejectsUnversionedInput(t *testing.T) {
	_, err := Read(bytes.NewBufferString(`{"members":[]}`))
	assert.Error(t, err)

	_, err = Read(bytes.NewBufferString(`not json`))
	assert.Error(t, err)
}

func openArchive(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())
	return db
}

func TestArchiveStoreIsIdempotentPerRecord(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	srv := seededServer(t)
	snap, err := newExporter(srv).Take(context.Background())
	require.NoError(t, err)

	db := openArchive(t)
	archiver := NewArchiver(db, logger.Discard())

	first, err := archiver.Store(snap)
	require.NoError(t, err)
	assert.Equal(t, 15, first.RecordCount)

	// a later snapshot where one member marked absent became present
	snap.Attendance[1].Present = true
	snap.TakenAt = snap.TakenAt.Add(time.Hour)
	second, err := archiver.Store(snap)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	count := func(table string) int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		return n
	}
	assert.Equal(t, 2, count("members"))
	assert.Equal(t, 2, count("attendance"))
	assert.Equal(t, 3, count("choir_songs"), "song ids only need to be unique within a choir")
	assert.Equal(t, 2, count("testimonies"))
	assert.Equal(t, 2, count("archive_runs"))

	var present bool
	require.NoError(t, db.QueryRow("SELECT present FROM attendance WHERE member_id = ? AND sabbath_date = ?", "m2", "2024-03-02").Scan(&present))
	assert.True(t, present)

	var payload string
	require.NoError(t, db.QueryRow("SELECT payload FROM members WHERE id = ?", "m1").Scan(&payload))
	assert.Contains(t, payload, `"name":"Ama"`)

	runs, err := archiver.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest run first")
}
