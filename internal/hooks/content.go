package hooks

import (
	"context"

	"churchportal/internal/access"
	"churchportal/internal/cache"
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Blog covers blog posts
type Blog struct {
	c *Client
}

func (h *Blog) List(filter models.BlogFilter) *query.Query[[]models.Blog] {
	svc := h.c.services.Blog
	return read(h.c, access.Blog, listKey(BlogKey, filter.Values()), h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.Blog, error) {
			return svc.GetAll(ctx, filter)
		})
}

func (h *Blog) Get(id string) *query.Query[*models.Blog] {
	svc := h.c.services.Blog
	return read(h.c, access.Blog, itemKey(BlogKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.Blog, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

func (h *Blog) Create() *query.Mutation[models.CreateBlogInput, *models.Blog] {
	return write(h.c, access.Blog, access.Create, h.c.services.Blog.Create,
		func(models.CreateBlogInput, *models.Blog) []cache.Key {
			return []cache.Key{BlogKey}
		})
}

func (h *Blog) Update() *query.Mutation[models.UpdateBlogCommand, *models.Blog] {
	return write(h.c, access.Blog, access.Update, h.c.services.Blog.Update,
		func(cmd models.UpdateBlogCommand, _ *models.Blog) []cache.Key {
			return []cache.Key{BlogKey, itemKey(BlogKey, cmd.ID)}
		})
}

func (h *Blog) Delete() *query.Mutation[string, struct{}] {
	return write(h.c, access.Blog, access.Delete, drop(h.c.services.Blog.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{BlogKey, itemKey(BlogKey, id)}
		})
}

// Gallery covers photos and videos
type Gallery struct {
	c *Client
}

func (h *Gallery) List(filter models.GalleryFilter) *query.Query[[]models.GalleryItem] {
	svc := h.c.services.Gallery
	return read(h.c, access.Gallery, listKey(GalleryKey, filter.Values()), h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.GalleryItem, error) {
			return svc.GetAll(ctx, filter)
		})
}

func (h *Gallery) Get(id string) *query.Query[*models.GalleryItem] {
	svc := h.c.services.Gallery
	return read(h.c, access.Gallery, itemKey(GalleryKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.GalleryItem, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

// Create uploads a gallery item as multipart with its media file
func (h *Gallery) Create() *query.Mutation[models.CreateGalleryItemInput, *models.GalleryItem] {
	return write(h.c, access.Gallery, access.Create, h.c.services.Gallery.Create,
		func(models.CreateGalleryItemInput, *models.GalleryItem) []cache.Key {
			return []cache.Key{GalleryKey}
		})
}

func (h *Gallery) Delete() *query.Mutation[string, struct{}] {
	return write(h.c, access.Gallery, access.Delete, drop(h.c.services.Gallery.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{GalleryKey, itemKey(GalleryKey, id)}
		})
}

// Resources covers shared books and reading material
type Resources struct {
	c *Client
}

func (h *Resources) List(filter models.ResourceFilter) *query.Query[[]models.Resource] {
	svc := h.c.services.Resources
	return read(h.c, access.Resources, listKey(ResourcesKey, filter.Values()), h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.Resource, error) {
			return svc.GetAll(ctx, filter)
		})
}

func (h *Resources) Get(id string) *query.Query[*models.Resource] {
	svc := h.c.services.Resources
	return read(h.c, access.Resources, itemKey(ResourcesKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.Resource, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

func (h *Resources) Create() *query.Mutation[models.CreateResourceInput, *models.Resource] {
	return write(h.c, access.Resources, access.Create, h.c.services.Resources.Create,
		func(models.CreateResourceInput, *models.Resource) []cache.Key {
			return []cache.Key{ResourcesKey}
		})
}

func (h *Resources) Update() *query.Mutation[models.UpdateResourceCommand, *models.Resource] {
	return write(h.c, access.Resources, access.Update, h.c.services.Resources.Update,
		func(cmd models.UpdateResourceCommand, _ *models.Resource) []cache.Key {
			return []cache.Key{ResourcesKey, itemKey(ResourcesKey, cmd.ID)}
		})
}

func (h *Resources) Delete() *query.Mutation[string, struct{}] {
	return write(h.c, access.Resources, access.Delete, drop(h.c.services.Resources.Delete),
		func(id string, _ struct{}) []cache.Key {
			return []cache.Key{ResourcesKey, itemKey(ResourcesKey, id)}
		})
}
