package models

import (
	"io"
	"net/url"
	"time"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type GalleryItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	MediaURL     string    `json:"mediaUrl"`
	MediaType    MediaType `json:"mediaType"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateGalleryItemInput is sent as the JSON "data" part; Media becomes the "media" part
type CreateGalleryItemInput struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description,omitempty"`
	MediaType   MediaType   `json:"mediaType" validate:"required,oneof=image video"`
	UploadedBy  string      `json:"uploadedBy" validate:"required"`
	Media       *FileUpload `json:"-"`
}

type GalleryFilter struct {
	MediaType MediaType
}

func (f GalleryFilter) Values() url.Values {
	v := url.Values{}
	setIf(v, "mediaType", string(f.MediaType))
	return v
}

// FileUpload is a binary attachment of arbitrary MIME type
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}
