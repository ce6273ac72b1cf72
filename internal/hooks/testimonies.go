package hooks

import (
	"context"

	"churchportal/internal/access"
	"churchportal/internal/cache"
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Testimonies covers submission, moderation and the public list
type Testimonies struct {
	c *Client
}

// Approved is the public list
func (h *Testimonies) Approved() *query.Query[[]models.Testimony] {
	svc := h.c.services.Testimonies
	approved := true
	return read(h.c, access.Testimonies, approvedTestimoniesKey, h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.Testimony, error) {
			return svc.GetAll(ctx, models.TestimonyFilter{Approved: &approved})
		})
}

// Pending lists testimonies awaiting approval; only approvers may read it
func (h *Testimonies) Pending() *query.Query[[]models.Testimony] {
	svc := h.c.services.Testimonies
	pending := false
	return read(h.c, access.PendingTestimony, pendingTestimoniesKey, h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.Testimony, error) {
			return svc.GetAll(ctx, models.TestimonyFilter{Approved: &pending})
		})
}

func (h *Testimonies) Get(id string) *query.Query[*models.Testimony] {
	svc := h.c.services.Testimonies
	return read(h.c, access.Testimonies, itemKey(TestimoniesKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.Testimony, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

// Submit creates an unapproved testimony; visitors may submit too
func (h *Testimonies) Submit() *query.Mutation[models.CreateTestimonyInput, *models.Testimony] {
	return write(h.c, access.Testimonies, access.Create, h.c.services.Testimonies.Create,
		func(models.CreateTestimonyInput, *models.Testimony) []cache.Key {
			return []cache.Key{pendingTestimoniesKey}
		})
}

// Approve publishes a testimony. Both moderation lists and the testimony
// itself are invalidated.
func (h *Testimonies) Approve() *query.Mutation[string, *models.Testimony] {
	return write(h.c, access.Testimonies, access.Approve, h.c.services.Testimonies.Approve,
		func(id string, _ *models.Testimony) []cache.Key {
			return []cache.Key{pendingTestimoniesKey, approvedTestimoniesKey, itemKey(TestimoniesKey, id)}
		})
}

func (h *Testimonies) Delete() *query.Mutation[string, struct{}] {
	return write(h.c, access.Testimonies, access.Delete, drop(h.c.services.Testimonies.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{TestimoniesKey, itemKey(TestimoniesKey, id)}
		})
}
