package models

import "time"

// Choir groups singing members together with their repertoire
type Choir struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	ChoirMembers []string    `json:"choirMembers"`
	Songs        []ChoirSong `json:"songs,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// ChoirSong is addressed by the composite key (ChoirID, ID)
type ChoirSong struct {
	ID         string    `json:"id"`
	ChoirID    string    `json:"choirId"`
	Title      string    `json:"title"`
	Lyrics     string    `json:"lyrics"`
	AudioURL   string    `json:"audioUrl,omitempty"`
	ChoirName  string    `json:"choirName"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateChoirInput struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	ChoirMembers []string `json:"choirMembers" validate:"dive,required"`
}

type UpdateChoirCommand struct {
	ID          string  `json:"-" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}

// ChoirMembership adds or removes one member of a choir
type ChoirMembership struct {
	ChoirID  string `json:"-" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
}

// CreateChoirSongInput is sent as the JSON "data" part of a multipart request;
// Audio, when set, becomes the "audio" part.
type CreateChoirSongInput struct {
	ChoirID    string      `json:"-" validate:"required"`
	Title      string      `json:"title" validate:"required"`
	Lyrics     string      `json:"lyrics"`
	ChoirName  string      `json:"choirName" validate:"required"`
	UploadedBy string      `json:"uploadedBy" validate:"required"`
	Audio      *FileUpload `json:"-"`
}

type UpdateChoirSongCommand struct {
	ChoirID  string  `json:"-" validate:"required"`
	SongID   string  `json:"-" validate:"required"`
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Lyrics   *string `json:"lyrics,omitempty"`
	AudioURL *string `json:"audioUrl,omitempty" validate:"omitempty,url"`
}

// SongRef addresses one song of one choir
type SongRef struct {
	ChoirID string
	SongID  string
}
