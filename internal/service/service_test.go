package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"churchportal/internal/apiclient"
	"churchportal/internal/apitest"
	"churchportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) (*Services, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return New(srv.Client()), srv
}

func TestPathEscapesSegments(t *testing.T) {
	assert.Equal(t, "/members", path(membersPath))
	assert.Equal(t, "/choir/c1/songs/s%201", path(choirPath, "c1", "songs", "s 1"))
}

func TestMemberCreateThenGetByID(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	input := models.CreateMemberInput{
		Name:   "Grace Mensah",
		Email:  "grace@example.org",
		Phone:  "0244000000",
		Family: models.FamilyEbenezer,
		Level:  models.LevelY2,
		Status: models.StatusCurrentStudent,
		Role:   models.RoleMember,
	}
	created, err := svc.Members.Create(ctx, input)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Members.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.Email, got.Email)
	assert.Equal(t, input.Phone, got.Phone)
	assert.Equal(t, input.Family, got.Family)
	assert.Equal(t, input.Level, got.Level)
	assert.Equal(t, input.Status, got.Status)
	assert.Equal(t, input.Role, got.Role)
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	svc, srv := newServices(t)
	ids := srv.Seed("blog", models.Blog{Title: "Welcome", Category: models.BlogAnnouncement})
	ctx := context.Background()

	require.NoError(t, svc.Blog.Delete(ctx, ids[0]))

	err := svc.Blog.Delete(ctx, ids[0])
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestUpdateSendsOnlySetFields(t *testing.T) {
	svc, srv := newServices(t)
	ids := srv.Seed("members", models.Member{Name: "Kofi", Email: "kofi@example.org", Level: models.LevelY1})

	level := models.LevelY3
	updated, err := svc.Members.Update(context.Background(), models.UpdateMemberCommand{ID: ids[0], Level: &level})
	require.NoError(t, err)
	assert.Equal(t, models.LevelY3, updated.Level)
	assert.Equal(t, "Kofi", updated.Name)
}

func TestSearchSendsQuery(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("members",
		models.Member{Name: "Grace Mensah"},
		models.Member{Name: "John Doe"},
	)

	found, err := svc.Members.Search(context.Background(), "grace")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Grace Mensah", found[0].Name)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/members/search", reqs[0].Path)
	assert.Equal(t, "q=grace", reqs[0].Query)
}

func TestListFilters(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("members",
		models.Member{Name: "A", Family: models.FamilyEbenezer},
		models.Member{Name: "B", Family: models.FamilyJehovaNissi},
	)

	list, err := svc.Members.GetAll(context.Background(), models.MemberFilter{Family: models.FamilyJehovaNissi})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Name)
}

func TestCreateSongWithAudioIsOneMultipartRequest(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("choir", models.Choir{ID: "c1", Name: "Voices of Praise"})

	input := models.CreateChoirSongInput{
		ChoirID:    "c1",
		Title:      "Amazing Grace",
		Lyrics:     "Amazing grace, how sweet the sound",
		ChoirName:  "Voices of Praise",
		UploadedBy: "m1",
		Audio: &models.FileUpload{
			Filename:    "grace.mp3",
			ContentType: "audio/mpeg",
			Content:     bytes.NewReader([]byte("ID3-fake-audio")),
		},
	}
	song, err := svc.Choirs.CreateSong(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/grace.mp3", song.AudioURL)
	assert.Equal(t, "c1", song.ChoirID)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/choir/c1/songs", req.Path)
	assert.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data; boundary="))

	var data map[string]any
	require.NoError(t, json.Unmarshal(req.Parts["data"], &data))
	assert.Equal(t, map[string]any{
		"title":      "Amazing Grace",
		"lyrics":     "Amazing grace, how sweet the sound",
		"choirName":  "Voices of Praise",
		"uploadedBy": "m1",
	}, data)
	assert.Equal(t, []byte("ID3-fake-audio"), req.Parts["audio"])
	assert.Equal(t, "audio/mpeg", req.PartTypes["audio"])
}

func TestCreateSongWithoutAudio(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("choir", models.Choir{ID: "c1", Name: "Voices of Praise"})

	song, err := svc.Choirs.CreateSong(context.Background(), models.CreateChoirSongInput{
		ChoirID:    "c1",
		Title:      "Blessed Assurance",
		ChoirName:  "Voices of Praise",
		UploadedBy: "m1",
	})
	require.NoError(t, err)
	assert.Empty(t, song.AudioURL)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Parts, "data")
	assert.NotContains(t, reqs[0].Parts, "audio")
}

func TestGalleryCreateSendsMediaPart(t *testing.T) {
	svc, srv := newServices(t)

	item, err := svc.Gallery.Create(context.Background(), models.CreateGalleryItemInput{
		Title:      "Baptism",
		MediaType:  models.MediaImage,
		UploadedBy: "m2",
		Media: &models.FileUpload{
			Filename:    "baptism.jpg",
			ContentType: "image/jpeg",
			Content:     strings.NewReader("jpeg-bytes"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/baptism.jpg", item.MediaURL)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, []byte("jpeg-bytes"), reqs[0].Parts["media"])
}

func TestApproveChangesOnlyThatTestimony(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("testimonies",
		models.Testimony{ID: "t1", Title: "Healed", Content: "I was healed last week"},
		models.Testimony{ID: "t2", Title: "Provision", Content: "God provided my fees"},
	)

	approved, err := svc.Testimonies.Approve(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	t2, err := svc.Testimonies.GetByID(context.Background(), "t2")
	require.NoError(t, err)
	assert.False(t, t2.IsApproved)

	yes := true
	list, err := svc.Testimonies.GetAll(context.Background(), models.TestimonyFilter{Approved: &yes})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].ID)
}

func TestChoirMembership(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("choir", models.Choir{ID: "c1", Name: "Voices of Praise", ChoirMembers: []string{}})
	ctx := context.Background()

	choir, err := svc.Choirs.AddMember(ctx, models.ChoirMembership{ChoirID: "c1", MemberID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, choir.ChoirMembers)

	require.NoError(t, svc.Choirs.RemoveMember(ctx, models.ChoirMembership{ChoirID: "c1", MemberID: "m1"}))
	err = svc.Choirs.RemoveMember(ctx, models.ChoirMembership{ChoirID: "c1", MemberID: "m1"})
	assert.True(t, apiclient.IsNotFound(err))
}

func TestServiceErrorsAreNotWrapped(t *testing.T) {
	svc, srv := newServices(t)
	srv.FailNext(http.StatusInternalServerError, `{"message":"database unavailable"}`)

	_, err := svc.Members.Stats(context.Background())
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Same(t, apiErr, err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "database unavailable", apiErr.Message)
}

func TestPasswordReset(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	res, err := svc.Passwords.ForgotPassword(ctx, models.ForgotPasswordInput{Email: "grace@example.org"})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "grace@example.org")

	_, err = svc.Passwords.ResetPassword(ctx, models.ResetPasswordInput{Token: "stale", NewPassword: "hunter2hunter2"})
	assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))

	res, err = svc.Passwords.ResetPassword(ctx, models.ResetPasswordInput{Token: "valid-token", NewPassword: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "password updated", res.Message)
}

func TestAttendanceStats(t *testing.T) {
	svc, srv := newServices(t)
	srv.Seed("attendance",
		models.SabbathAttendance{MemberID: "m1", Family: models.FamilyEbenezer, Date: "2024-03-02", Present: true},
		models.SabbathAttendance{MemberID: "m2", Family: models.FamilyEbenezer, Date: "2024-03-02"},
		models.SabbathAttendance{MemberID: "m3", Family: models.FamilyJehovaNissi, Date: "2024-03-02", Present: true},
	)

	stats, err := svc.Attendance.Stats(context.Background(), models.FamilyEbenezer)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.PresentCount)
	assert.InDelta(t, 0.5, stats.AttendanceRate, 1e-9)
}
