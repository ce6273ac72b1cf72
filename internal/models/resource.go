package models

import (
	"net/url"
	"time"
)

type ResourceCategory string

const (
	ResourceBibleStudy ResourceCategory = "bible-study"
	ResourceDevotional ResourceCategory = "devotional"
	ResourceTheology   ResourceCategory = "theology"
	ResourceBiography  ResourceCategory = "biography"
	ResourceOther      ResourceCategory = "other"
)

// Resource is a book or reading material shared with the congregation
type Resource struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Author      string           `json:"author"`
	Description string           `json:"description"`
	Category    ResourceCategory `json:"category"`
	CoverURL    string           `json:"coverUrl,omitempty"`
	PDFURL      string           `json:"pdfUrl,omitempty"`
	ExternalURL string           `json:"externalUrl,omitempty"`
	UploadedBy  string           `json:"uploadedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type CreateResourceInput struct {
	Title       string           `json:"title" validate:"required"`
	Author      string           `json:"author" validate:"required"`
	Description string           `json:"description"`
	Category    ResourceCategory `json:"category" validate:"required,oneof=bible-study devotional theology biography other"`
	CoverURL    string           `json:"coverUrl,omitempty" validate:"omitempty,url"`
	PDFURL      string           `json:"pdfUrl,omitempty" validate:"omitempty,url"`
	ExternalURL string           `json:"externalUrl,omitempty" validate:"omitempty,url"`
	UploadedBy  string           `json:"uploadedBy" validate:"required"`
}

type UpdateResourceCommand struct {
	ID          string            `json:"-" validate:"required"`
	Title       *string           `json:"title,omitempty" validate:"omitempty,min=1"`
	Author      *string           `json:"author,omitempty" validate:"omitempty,min=1"`
	Description *string           `json:"description,omitempty"`
	Category    *ResourceCategory `json:"category,omitempty" validate:"omitempty,oneof=bible-study devotional theology biography other"`
	CoverURL    *string           `json:"coverUrl,omitempty" validate:"omitempty,url"`
	PDFURL      *string           `json:"pdfUrl,omitempty" validate:"omitempty,url"`
	ExternalURL *string           `json:"externalUrl,omitempty" validate:"omitempty,url"`
}

type ResourceFilter struct {
	Category ResourceCategory
}

func (f ResourceFilter) Values() url.Values {
	v := url.Values{}
	setIf(v, "category", string(f.Category))
	return v
}
