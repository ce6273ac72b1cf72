package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const attendancePath = "attendance"

// AttendanceService maps sabbath attendance operations onto the REST backend
type AttendanceService struct {
	api *apiclient.Client
}

func NewAttendanceService(api *apiclient.Client) *AttendanceService {
	return &AttendanceService{api: api}
}

func (s *AttendanceService) GetAll(ctx context.Context, filter models.AttendanceFilter) ([]models.SabbathAttendance, error) {
	return apiclient.Get[[]models.SabbathAttendance](ctx, s.api, path(attendancePath), filter.Values())
}

func (s *AttendanceService) GetByID(ctx context.Context, id string) (*models.SabbathAttendance, error) {
	return apiclient.Get[*models.SabbathAttendance](ctx, s.api, path(attendancePath, id), nil)
}

func (s *AttendanceService) Create(ctx context.Context, input models.CreateAttendanceInput) (*models.SabbathAttendance, error) {
	return apiclient.Post[*models.SabbathAttendance](ctx, s.api, path(attendancePath), input)
}

func (s *AttendanceService) Update(ctx context.Context, cmd models.UpdateAttendanceCommand) (*models.SabbathAttendance, error) {
	return apiclient.Put[*models.SabbathAttendance](ctx, s.api, path(attendancePath, cmd.ID), cmd)
}

// Stats aggregates attendance, optionally for one family
func (s *AttendanceService) Stats(ctx context.Context, family models.Family) (*models.AttendanceStats, error) {
	filter := models.AttendanceFilter{Family: family}
	return apiclient.Get[*models.AttendanceStats](ctx, s.api, path(attendancePath, "stats"), filter.Values())
}
