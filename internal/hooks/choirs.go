package hooks

import (
	"context"
	"strings"

	"churchportal/internal/access"
	"churchportal/internal/cache"
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Choirs covers choirs, their members and their songs. Song keys live under
// the owning choir: {"choirs", choirID, "songs"}.
type Choirs struct {
	c *Client
}

func (h *Choirs) List() *query.Query[[]models.Choir] {
	return read(h.c, access.Choirs, ChoirsKey, h.c.cfg.ListStaleTime, h.c.services.Choirs.GetAll)
}

func (h *Choirs) Get(id string) *query.Query[*models.Choir] {
	svc := h.c.services.Choirs
	return read(h.c, access.Choirs, itemKey(ChoirsKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.Choir, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

// Search finds choirs by name; disabled below the minimum term length
func (h *Choirs) Search(term string) *query.Query[[]models.Choir] {
	term = strings.TrimSpace(term)
	svc := h.c.services.Choirs
	return read(h.c, access.Choirs, searchKey(ChoirsKey, term), h.c.cfg.SearchStaleTime,
		func(ctx context.Context) ([]models.Choir, error) {
			return svc.Search(ctx, term)
		}, query.Enabled(len([]rune(term)) >= h.c.cfg.SearchMinLength))
}

// Songs lists the songs of one choir
func (h *Choirs) Songs(choirID string) *query.Query[[]models.ChoirSong] {
	svc := h.c.services.Choirs
	return read(h.c, access.Choirs, songsKey(choirID), h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.ChoirSong, error) {
			return svc.GetSongs(ctx, choirID)
		}, query.Enabled(idSet(choirID)))
}

func (h *Choirs) Create() *query.Mutation[models.CreateChoirInput, *models.Choir] {
	return write(h.c, access.Choirs, access.Create, h.c.services.Choirs.Create,
		func(models.CreateChoirInput, *models.Choir) []cache.Key {
			return []cache.Key{ChoirsKey}
		})
}

func (h *Choirs) Update() *query.Mutation[models.UpdateChoirCommand, *models.Choir] {
	return write(h.c, access.Choirs, access.Update, h.c.services.Choirs.Update,
		func(cmd models.UpdateChoirCommand, _ *models.Choir) []cache.Key {
			return []cache.Key{ChoirsKey, itemKey(ChoirsKey, cmd.ID)}
		})
}

func (h *Choirs) Delete() *query.Mutation[string, struct{}] {
	return write(h.c, access.Choirs, access.Delete, drop(h.c.services.Choirs.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{ChoirsKey, itemKey(ChoirsKey, id)}
		})
}

func membershipKeys(m models.ChoirMembership) []cache.Key {
	return []cache.Key{ChoirsKey, itemKey(ChoirsKey, m.ChoirID)}
}

func (h *Choirs) AddMember() *query.Mutation[models.ChoirMembership, *models.Choir] {
	return write(h.c, access.Choirs, access.Update, h.c.services.Choirs.AddMember,
		func(m models.ChoirMembership, _ *models.Choir) []cache.Key {
			return membershipKeys(m)
		})
}

func (h *Choirs) RemoveMember() *query.Mutation[models.ChoirMembership, struct{}] {
	return write(h.c, access.Choirs, access.Update, drop(h.c.services.Choirs.RemoveMember),
		func(m models.ChoirMembership, _ struct{}) []cache.Key {
			return membershipKeys(m)
		})
}

// CreateSong uploads a song, with its audio file when one is attached
func (h *Choirs) CreateSong() *query.Mutation[models.CreateChoirSongInput, *models.ChoirSong] {
	return write(h.c, access.Choirs, access.Create, h.c.services.Choirs.CreateSong,
		func(in models.CreateChoirSongInput, _ *models.ChoirSong) []cache.Key {
			return []cache.Key{ChoirsKey, itemKey(ChoirsKey, in.ChoirID), songsKey(in.ChoirID)}
		})
}

func (h *Choirs) UpdateSong() *query.Mutation[models.UpdateChoirSongCommand, *models.ChoirSong] {
	return write(h.c, access.Choirs, access.Update, h.c.services.Choirs.UpdateSong,
		func(cmd models.UpdateChoirSongCommand, _ *models.ChoirSong) []cache.Key {
			return []cache.Key{ChoirsKey, songsKey(cmd.ChoirID)}
		})
}

func (h *Choirs) DeleteSong() *query.Mutation[models.SongRef, struct{}] {
	return write(h.c, access.Choirs, access.Delete, drop(h.c.services.Choirs.DeleteSong),
		func(ref models.SongRef, _ struct{}) []cache.Key {
			return []cache.Key{ChoirsKey, itemKey(ChoirsKey, ref.ChoirID), songsKey(ref.ChoirID)}
		},
		func(_ context.Context, ref models.SongRef) error {
			if !idSet(ref.ChoirID) || !idSet(ref.SongID) {
				return &models.ValidationError{
					Err:    models.ErrInvalidInput,
					Fields: []models.FieldError{{Field: "song", Error: "choir id and song id are both required"}},
				}
			}
			return nil
		})
}
