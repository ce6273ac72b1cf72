package models

import "time"

// CommitteeMeeting holds the notes taken at a committee meeting
type CommitteeMeeting struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	Attendees []string  `json:"attendees"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateCommitteeMeetingInput struct {
	Title     string   `json:"title" validate:"required"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Notes     string   `json:"notes"`
	Attendees []string `json:"attendees" validate:"dive,required"`
	CreatedBy string   `json:"createdBy" validate:"required"`
}

type UpdateCommitteeMeetingCommand struct {
	ID        string    `json:"-" validate:"required"`
	Title     *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Date      *string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string   `json:"notes,omitempty"`
	Attendees *[]string `json:"attendees,omitempty"`
}
