package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const resourcesPath = "resources"

// ResourceService handles the shared library of books and reading material
type ResourceService struct {
	api *apiclient.Client
}

func NewResourceService(api *apiclient.Client) *ResourceService {
	return &ResourceService{api: api}
}

func (s *ResourceService) GetAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	return apiclient.Get[[]models.Resource](ctx, s.api, path(resourcesPath), filter.Values())
}

func (s *ResourceService) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	return apiclient.Get[*models.Resource](ctx, s.api, path(resourcesPath, id), nil)
}

func (s *ResourceService) Create(ctx context.Context, input models.CreateResourceInput) (*models.Resource, error) {
	return apiclient.Post[*models.Resource](ctx, s.api, path(resourcesPath), input)
}

func (s *ResourceService) Update(ctx context.Context, cmd models.UpdateResourceCommand) (*models.Resource, error) {
	return apiclient.Put[*models.Resource](ctx, s.api, path(resourcesPath, cmd.ID), cmd)
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(resourcesPath, id))
}
