package hooks

import (
	"context"
	"strings"

	"churchportal/internal/access"
	"churchportal/internal/cache"
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Members covers member records, search and congregation statistics
type Members struct {
	c *Client
}

// List returns the members matching filter (list stale time)
func (h *Members) List(filter models.MemberFilter) *query.Query[[]models.Member] {
	svc := h.c.services.Members
	return read(h.c, access.Members, listKey(MembersKey, filter.Values()), h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.Member, error) {
			return svc.GetAll(ctx, filter)
		})
}

// Get loads one member; disabled while id is empty
func (h *Members) Get(id string) *query.Query[*models.Member] {
	svc := h.c.services.Members
	return read(h.c, access.Members, itemKey(MembersKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.Member, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

// Search runs a free-text search. Terms shorter than the configured minimum
// leave the query disabled, so no request is made.
func (h *Members) Search(term string) *query.Query[[]models.Member] {
	term = strings.TrimSpace(term)
	svc := h.c.services.Members
	return read(h.c, access.Members, searchKey(MembersKey, term), h.c.cfg.SearchStaleTime,
		func(ctx context.Context) ([]models.Member, error) {
			return svc.Search(ctx, term)
		}, query.Enabled(len([]rune(term)) >= h.c.cfg.SearchMinLength))
}

// LiveSearch debounces a stream of keystroke values and runs one search per
// settled value that differs from the previous one. The output closes when
// terms closes or ctx ends.
func (h *Members) LiveSearch(ctx context.Context, terms <-chan string) <-chan query.Result[[]models.Member] {
	out := make(chan query.Result[[]models.Member])
	go func() {
		defer close(out)

		var last string
		seen := false
		for term := range query.Debounce(ctx, terms, h.c.cfg.SearchDebounce) {
			term = strings.TrimSpace(term)
			if seen && term == last {
				continue
			}
			last, seen = term, true

			q := h.Search(term)
			_, err := q.Get(ctx)
			r := q.Result()
			if err != nil && r.Err == nil {
				r.Err = err
				r.Status = query.StatusError
			}

			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Stats returns congregation totals (stats stale time)
func (h *Members) Stats() *query.Query[*models.MemberStats] {
	svc := h.c.services.Members
	return read(h.c, access.Members, statsKey(MembersKey), h.c.cfg.StatsStaleTime, svc.Stats)
}

// Create registers a member. Family-scoped roles may only add to their own family.
func (h *Members) Create() *query.Mutation[models.CreateMemberInput, *models.Member] {
	c := h.c
	return write(c, access.Members, access.Create, c.services.Members.Create,
		func(_ models.CreateMemberInput, out *models.Member) []cache.Key {
			keys := []cache.Key{MembersKey}
			if out != nil {
				keys = append(keys, itemKey(MembersKey, out.ID))
			}
			return keys
		},
		func(_ context.Context, in models.CreateMemberInput) error {
			return c.checkFamily(access.Members, access.Create, in.Family)
		})
}

// Update changes the set fields of a member
func (h *Members) Update() *query.Mutation[models.UpdateMemberCommand, *models.Member] {
	c := h.c
	return write(c, access.Members, access.Update, c.services.Members.Update,
		func(cmd models.UpdateMemberCommand, _ *models.Member) []cache.Key {
			return []cache.Key{MembersKey, itemKey(MembersKey, cmd.ID)}
		},
		func(ctx context.Context, cmd models.UpdateMemberCommand) error {
			if !c.familyScoped() {
				return nil
			}
			if err := h.checkOwner(ctx, access.Update, cmd.ID); err != nil {
				return err
			}
			if cmd.Family != nil {
				return c.checkFamily(access.Members, access.Update, *cmd.Family)
			}
			return nil
		})
}

// Delete removes a member record
func (h *Members) Delete() *query.Mutation[string, struct{}] {
	c := h.c
	return write(c, access.Members, access.Delete, drop(c.services.Members.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{MembersKey, itemKey(MembersKey, id)}
		})
}

// checkOwner loads the member, through the cache, to find its family
func (h *Members) checkOwner(ctx context.Context, act access.Action, id string) error {
	member, err := h.Get(id).Get(ctx)
	if err != nil {
		return err
	}
	if member == nil {
		return nil
	}
	return h.c.checkFamily(access.Members, act, member.Family)
}
