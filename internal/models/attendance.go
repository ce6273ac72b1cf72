package models

import (
	"net/url"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// SabbathAttendance records one member's participation on one sabbath.
// At most one record exists per (MemberID, Date).
type SabbathAttendance struct {
	ID               string    `json:"id"`
	MemberID         string    `json:"memberId"`
	Family           Family    `json:"family"`
	Date             string    `json:"date"`
	Present          bool      `json:"present"`
	SabbathSchool    bool      `json:"sabbathSchool"`
	DivineService    bool      `json:"divineService"`
	AfternoonProgram bool      `json:"afternoonProgram"`
	BibleStudies     int       `json:"bibleStudies"`
	VisitorsBrought  int       `json:"visitorsBrought"`
	RecordedBy       string    `json:"recordedBy"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CreateAttendanceInput struct {
	MemberID         string `json:"memberId" validate:"required"`
	Family           Family `json:"family" validate:"required,oneof='Salvation Siblings' Ebenezer Jehova-nissi"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	Present          bool   `json:"present"`
	SabbathSchool    bool   `json:"sabbathSchool"`
	DivineService    bool   `json:"divineService"`
	AfternoonProgram bool   `json:"afternoonProgram"`
	BibleStudies     int    `json:"bibleStudies" validate:"gte=0"`
	VisitorsBrought  int    `json:"visitorsBrought" validate:"gte=0"`
	RecordedBy       string `json:"recordedBy" validate:"required"`
}

type UpdateAttendanceCommand struct {
	ID               string  `json:"-" validate:"required"`
	Present          *bool   `json:"present,omitempty"`
	SabbathSchool    *bool   `json:"sabbathSchool,omitempty"`
	DivineService    *bool   `json:"divineService,omitempty"`
	AfternoonProgram *bool   `json:"afternoonProgram,omitempty"`
	BibleStudies     *int    `json:"bibleStudies,omitempty" validate:"omitempty,gte=0"`
	VisitorsBrought  *int    `json:"visitorsBrought,omitempty" validate:"omitempty,gte=0"`
	RecordedBy       *string `json:"recordedBy,omitempty"`
}

// UpdateFrom builds the command that overwrites an existing record with in
func (in CreateAttendanceInput) UpdateFrom(id string) UpdateAttendanceCommand {
	return UpdateAttendanceCommand{
		ID:               id,
		Present:          &in.Present,
		SabbathSchool:    &in.SabbathSchool,
		DivineService:    &in.DivineService,
		AfternoonProgram: &in.AfternoonProgram,
		BibleStudies:     &in.BibleStudies,
		VisitorsBrought:  &in.VisitorsBrought,
		RecordedBy:       &in.RecordedBy,
	}
}

type AttendanceFilter struct {
	Family   Family
	Date     string
	MemberID string
}

func (f AttendanceFilter) Values() url.Values {
	v := url.Values{}
	setIf(v, "family", string(f.Family))
	setIf(v, "date", f.Date)
	setIf(v, "memberId", f.MemberID)
	return v
}

// AttendanceStats aggregates attendance for a family (or everyone)
type AttendanceStats struct {
	Family         Family  `json:"family,omitempty"`
	TotalRecords   int     `json:"totalRecords"`
	PresentCount   int     `json:"presentCount"`
	AbsentCount    int     `json:"absentCount"`
	AttendanceRate float64 `json:"attendanceRate"`
}
