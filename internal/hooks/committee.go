package hooks

import (
	"context"

	"churchportal/internal/access"
	"churchportal/internal/cache"
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Committee covers committee meeting notes
type Committee struct {
	c *Client
}

func (h *Committee) List() *query.Query[[]models.CommitteeMeeting] {
	return read(h.c, access.Committee, CommitteeKey, h.c.cfg.ListStaleTime, h.c.services.Committee.GetAll)
}

func (h *Committee) Get(id string) *query.Query[*models.CommitteeMeeting] {
	svc := h.c.services.Committee
	return read(h.c, access.Committee, itemKey(CommitteeKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.CommitteeMeeting, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

func (h *Committee) Create() *query.Mutation[models.CreateCommitteeMeetingInput, *models.CommitteeMeeting] {
	return write(h.c, access.Committee, access.Create, h.c.services.Committee.Create,
		func(models.CreateCommitteeMeetingInput, *models.CommitteeMeeting) []cache.Key {
			return []cache.Key{CommitteeKey}
		})
}

func (h *Committee) Update() *query.Mutation[models.UpdateCommitteeMeetingCommand, *models.CommitteeMeeting] {
	return write(h.c, access.Committee, access.Update, h.c.services.Committee.Update,
		func(cmd models.UpdateCommitteeMeetingCommand, _ *models.CommitteeMeeting) []cache.Key {
			return []cache.Key{CommitteeKey, itemKey(CommitteeKey, cmd.ID)}
		})
}

func (h *Committee) Delete() *query.Mutation[string, struct{}] {
	return write(h.c, access.Committee, access.Delete, drop(h.c.services.Committee.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{CommitteeKey, itemKey(CommitteeKey, id)}
		})
}
