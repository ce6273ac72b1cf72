package models

import (
	"net/url"
	"time"
)

// Family is one of the fellowship families every member belongs to
type Family string

const (
	FamilySalvationSiblings Family = "Salvation Siblings"
	FamilyEbenezer          Family = "Ebenezer"
	FamilyJehovaNissi       Family = "Jehova-nissi"
)

// Families lists every family in display order
var Families = []Family{FamilySalvationSiblings, FamilyEbenezer, FamilyJehovaNissi}

func (f Family) IsValid() bool {
	for _, known := range Families {
		if f == known {
			return true
		}
	}
	return false
}

// Level is the member's year of study
type Level string

const (
	LevelY1 Level = "Y1"
	LevelY2 Level = "Y2"
	LevelY3 Level = "Y3"
)

// MemberStatus distinguishes current students from alumni
type MemberStatus string

const (
	StatusCurrentStudent MemberStatus = "Current Student"
	StatusAlumni         MemberStatus = "Alumni"
)

// Member represents a registered member of the congregation
type Member struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	Family    Family       `json:"family"`
	Level     Level        `json:"level"`
	Status    MemberStatus `json:"status"`
	Role      Role         `json:"role"`
	CreatedAt time.Time    `json:"createdAt"`
}

// CreateMemberInput carries the fields a client may set when registering a member
type CreateMemberInput struct {
	Name   string       `json:"name" validate:"required,min=2"`
	Email  string       `json:"email" validate:"required,email"`
	Phone  string       `json:"phone,omitempty" validate:"omitempty,min=7"`
	Family Family       `json:"family" validate:"required,oneof='Salvation Siblings' Ebenezer Jehova-nissi"`
	Level  Level        `json:"level" validate:"required,oneof=Y1 Y2 Y3"`
	Status MemberStatus `json:"status" validate:"required,oneof='Current Student' Alumni"`
	Role   Role         `json:"role" validate:"omitempty,role"`
}

// UpdateMemberCommand changes selected fields of a member; nil fields are left untouched
type UpdateMemberCommand struct {
	ID     string        `json:"-" validate:"required"`
	Name   *string       `json:"name,omitempty" validate:"omitempty,min=2"`
	Email  *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string       `json:"phone,omitempty"`
	Family *Family       `json:"family,omitempty" validate:"omitempty,oneof='Salvation Siblings' Ebenezer Jehova-nissi"`
	Level  *Level        `json:"level,omitempty" validate:"omitempty,oneof=Y1 Y2 Y3"`
	Status *MemberStatus `json:"status,omitempty" validate:"omitempty,oneof='Current Student' Alumni"`
	Role   *Role         `json:"role,omitempty" validate:"omitempty,role"`
}

// MemberFilter narrows a member listing
type MemberFilter struct {
	Family Family
	Level  Level
	Status MemberStatus
	Role   Role
}

// Values encodes the filter as query parameters; empty fields are omitted
func (f MemberFilter) Values() url.Values {
	v := url.Values{}
	setIf(v, "family", string(f.Family))
	setIf(v, "level", string(f.Level))
	setIf(v, "status", string(f.Status))
	setIf(v, "role", string(f.Role))
	return v
}

// MemberStats summarises the congregation
type MemberStats struct {
	Total    int                  `json:"total"`
	ByFamily map[Family]int       `json:"byFamily"`
	ByLevel  map[Level]int        `json:"byLevel"`
	ByStatus map[MemberStatus]int `json:"byStatus"`
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
