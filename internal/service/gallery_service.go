package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const galleryPath = "gallery"

type GalleryService struct {
	api *apiclient.Client
}

func NewGalleryService(api *apiclient.Client) *GalleryService {
	return &GalleryService{api: api}
}

func (s *GalleryService) GetAll(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, error) {
	return apiclient.Get[[]models.GalleryItem](ctx, s.api, path(galleryPath), filter.Values())
}

func (s *GalleryService) GetByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	return apiclient.Get[*models.GalleryItem](ctx, s.api, path(galleryPath, id), nil)
}

// Create uploads a gallery item as multipart with a "data" part and a "media" part
func (s *GalleryService) Create(ctx context.Context, input models.CreateGalleryItemInput) (*models.GalleryItem, error) {
	form := apiclient.Multipart{Data: input}
	if input.Media != nil {
		form.File = &apiclient.FilePart{
			Field:       "media",
			Filename:    input.Media.Filename,
			ContentType: input.Media.ContentType,
			Content:     input.Media.Content,
		}
	}
	return apiclient.PostMultipart[*models.GalleryItem](ctx, s.api, path(galleryPath), form)
}

func (s *GalleryService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(galleryPath, id))
}
