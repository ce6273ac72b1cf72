package service

import (
	"context"
	"net/url"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const choirPath = "choir"

// ChoirService covers choirs, their membership and their songs.
// Songs are addressed by (choirID, songID).
type ChoirService struct {
	api *apiclient.Client
}

func NewChoirService(api *apiclient.Client) *ChoirService {
	return &ChoirService{api: api}
}

func (s *ChoirService) GetAll(ctx context.Context) ([]models.Choir, error) {
	return apiclient.Get[[]models.Choir](ctx, s.api, path(choirPath), nil)
}

func (s *ChoirService) GetByID(ctx context.Context, id string) (*models.Choir, error) {
	return apiclient.Get[*models.Choir](ctx, s.api, path(choirPath, id), nil)
}

func (s *ChoirService) Search(ctx context.Context, query string) ([]models.Choir, error) {
	return apiclient.Get[[]models.Choir](ctx, s.api, path(choirPath, "search"), url.Values{"q": {query}})
}

func (s *ChoirService) Create(ctx context.Context, input models.CreateChoirInput) (*models.Choir, error) {
	return apiclient.Post[*models.Choir](ctx, s.api, path(choirPath), input)
}

func (s *ChoirService) Update(ctx context.Context, cmd models.UpdateChoirCommand) (*models.Choir, error) {
	return apiclient.Put[*models.Choir](ctx, s.api, path(choirPath, cmd.ID), cmd)
}

func (s *ChoirService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(choirPath, id))
}

// AddMember puts a member into the choir
func (s *ChoirService) AddMember(ctx context.Context, m models.ChoirMembership) (*models.Choir, error) {
	return apiclient.Post[*models.Choir](ctx, s.api, path(choirPath, m.ChoirID, "members"), m)
}

// RemoveMember takes a member out of the choir
func (s *ChoirService) RemoveMember(ctx context.Context, m models.ChoirMembership) error {
	return apiclient.Delete(ctx, s.api, path(choirPath, m.ChoirID, "members", m.MemberID))
}

// GetSongs lists the songs of one choir
func (s *ChoirService) GetSongs(ctx context.Context, choirID string) ([]models.ChoirSong, error) {
	return apiclient.Get[[]models.ChoirSong](ctx, s.api, path(choirPath, choirID, "songs"), nil)
}

// CreateSong uploads a song as multipart: a JSON "data" part and, when the
// input carries audio, an "audio" part
func (s *ChoirService) CreateSong(ctx context.Context, input models.CreateChoirSongInput) (*models.ChoirSong, error) {
	form := apiclient.Multipart{Data: input}
	if input.Audio != nil {
		form.File = &apiclient.FilePart{
			Field:       "audio",
			Filename:    input.Audio.Filename,
			ContentType: input.Audio.ContentType,
			Content:     input.Audio.Content,
		}
	}
	return apiclient.PostMultipart[*models.ChoirSong](ctx, s.api, path(choirPath, input.ChoirID, "songs"), form)
}

func (s *ChoirService) UpdateSong(ctx context.Context, cmd models.UpdateChoirSongCommand) (*models.ChoirSong, error) {
	return apiclient.Put[*models.ChoirSong](ctx, s.api, path(choirPath, cmd.ChoirID, "songs", cmd.SongID), cmd)
}

func (s *ChoirService) DeleteSong(ctx context.Context, ref models.SongRef) error {
	return apiclient.Delete(ctx, s.api, path(choirPath, ref.ChoirID, "songs", ref.SongID))
}
