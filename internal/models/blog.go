package models

import (
	"net/url"
	"time"
)

type BlogCategory string

const (
	BlogSermon       BlogCategory = "sermon"
	BlogDevotional   BlogCategory = "devotional"
	BlogAnnouncement BlogCategory = "announcement"
	BlogEvent        BlogCategory = "event"
	BlogTestimony    BlogCategory = "testimony"
)

type Blog struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Category  BlogCategory `json:"category"`
	Author    string       `json:"author"`
	ImageURL  string       `json:"imageUrl,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CreateBlogInput struct {
	Title    string       `json:"title" validate:"required"`
	Content  string       `json:"content" validate:"required"`
	Category BlogCategory `json:"category" validate:"required,oneof=sermon devotional announcement event testimony"`
	Author   string       `json:"author" validate:"required"`
	ImageURL string       `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type UpdateBlogCommand struct {
	ID       string        `json:"-" validate:"required"`
	Title    *string       `json:"title,omitempty" validate:"omitempty,min=1"`
	Content  *string       `json:"content,omitempty" validate:"omitempty,min=1"`
	Category *BlogCategory `json:"category,omitempty" validate:"omitempty,oneof=sermon devotional announcement event testimony"`
	ImageURL *string       `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type BlogFilter struct {
	Category BlogCategory
	Author   string
}

func (f BlogFilter) Values() url.Values {
	v := url.Values{}
	setIf(v, "category", string(f.Category))
	setIf(v, "author", f.Author)
	return v
}
