package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const blogPath = "blog"

type BlogService struct {
	api *apiclient.Client
}

func NewBlogService(api *apiclient.Client) *BlogService {
	return &BlogService{api: api}
}

func (s *BlogService) GetAll(ctx context.Context, filter models.BlogFilter) ([]models.Blog, error) {
	return apiclient.Get[[]models.Blog](ctx, s.api, path(blogPath), filter.Values())
}

func (s *BlogService) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return apiclient.Get[*models.Blog](ctx, s.api, path(blogPath, id), nil)
}

func (s *BlogService) Create(ctx context.Context, input models.CreateBlogInput) (*models.Blog, error) {
	return apiclient.Post[*models.Blog](ctx, s.api, path(blogPath), input)
}

func (s *BlogService) Update(ctx context.Context, cmd models.UpdateBlogCommand) (*models.Blog, error) {
	return apiclient.Put[*models.Blog](ctx, s.api, path(blogPath, cmd.ID), cmd)
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(blogPath, id))
}
