package service

import (
	"net/url"

	"churchportal/internal/apiclient"
)

// Services bundles every resource service built on one API client
type Services struct {
	Members     *MemberService
	Attendance  *AttendanceService
	Committee   *CommitteeService
	Choirs      *ChoirService
	Blog        *BlogService
	Gallery     *GalleryService
	Testimonies *TestimonyService
	Resources   *ResourceService
	Passwords   *PasswordService
}

// New wires all resource services to api
func New(api *apiclient.Client) *Services {
	return &Services{
		Members:     NewMemberService(api),
		Attendance:  NewAttendanceService(api),
		Committee:   NewCommitteeService(api),
		Choirs:      NewChoirService(api),
		Blog:        NewBlogService(api),
		Gallery:     NewGalleryService(api),
		Testimonies: NewTestimonyService(api),
		Resources:   NewResourceService(api),
		Passwords:   NewPasswordService(api),
	}
}

// path joins escaped segments onto a resource root: path("choir", id, "songs")
func path(root string, segments ...string) string {
	p := "/" + root
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	return p
}
