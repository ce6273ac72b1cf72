package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const testimoniesPath = "testimonies"

type TestimonyService struct {
	api *apiclient.Client
}

func NewTestimonyService(api *apiclient.Client) *TestimonyService {
	return &TestimonyService{api: api}
}

func (s *TestimonyService) GetAll(ctx context.Context, filter models.TestimonyFilter) ([]models.Testimony, error) {
	return apiclient.Get[[]models.Testimony](ctx, s.api, path(testimoniesPath), filter.Values())
}

func (s *TestimonyService) GetByID(ctx context.Context, id string) (*models.Testimony, error) {
	return apiclient.Get[*models.Testimony](ctx, s.api, path(testimoniesPath, id), nil)
}

// Create submits a testimony; it stays hidden until approved
func (s *TestimonyService) Create(ctx context.Context, input models.CreateTestimonyInput) (*models.Testimony, error) {
	return apiclient.Post[*models.Testimony](ctx, s.api, path(testimoniesPath), input)
}

// Approve publishes a testimony. Approval is its own transition, not a field edit.
func (s *TestimonyService) Approve(ctx context.Context, id string) (*models.Testimony, error) {
	return apiclient.Post[*models.Testimony](ctx, s.api, path(testimoniesPath, id, "approve"), nil)
}

func (s *TestimonyService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(testimoniesPath, id))
}
