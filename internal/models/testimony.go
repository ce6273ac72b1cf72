package models

import (
	"net/url"
	"strconv"
	"time"
)

// Testimony is submitted unapproved and becomes public once an evangelism
// leader approves it
type Testimony struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateTestimonyInput struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required,min=10"`
	Author      string `json:"author" validate:"required"`
	AuthorEmail string `json:"authorEmail,omitempty" validate:"omitempty,email"`
}

type TestimonyFilter struct {
	Approved *bool
}

func (f TestimonyFilter) Values() url.Values {
	v := url.Values{}
	if f.Approved != nil {
		v.Set("approved", strconv.FormatBool(*f.Approved))
	}
	return v
}
