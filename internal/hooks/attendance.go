package hooks

import (
	"context"

	"churchportal/internal/access"
	"churchportal/internal/cache"
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Attendance covers sabbath attendance records
type Attendance struct {
	c *Client
}

func (h *Attendance) List(filter models.AttendanceFilter) *query.Query[[]models.SabbathAttendance] {
	svc := h.c.services.Attendance
	return read(h.c, access.Attendance, listKey(AttendanceKey, filter.Values()), h.c.cfg.ListStaleTime,
		func(ctx context.Context) ([]models.SabbathAttendance, error) {
			return svc.GetAll(ctx, filter)
		})
}

func (h *Attendance) Get(id string) *query.Query[*models.SabbathAttendance] {
	svc := h.c.services.Attendance
	return read(h.c, access.Attendance, itemKey(AttendanceKey, id), h.c.cfg.ListStaleTime,
		func(ctx context.Context) (*models.SabbathAttendance, error) {
			return svc.GetByID(ctx, id)
		}, query.Enabled(idSet(id)))
}

// Stats aggregates attendance for family; the empty family means everyone
func (h *Attendance) Stats(family models.Family) *query.Query[*models.AttendanceStats] {
	svc := h.c.services.Attendance
	return read(h.c, access.Attendance, statsKey(AttendanceKey, string(family)), h.c.cfg.StatsStaleTime,
		func(ctx context.Context) (*models.AttendanceStats, error) {
			return svc.Stats(ctx, family)
		})
}

func (h *Attendance) invalidate(models.CreateAttendanceInput, *models.SabbathAttendance) []cache.Key {
	return []cache.Key{AttendanceKey}
}

func (h *Attendance) ownFamily(_ context.Context, in models.CreateAttendanceInput) error {
	return h.c.checkFamily(access.Attendance, access.Create, in.Family)
}

// Create always posts a new record; prefer Record, which keeps one record
// per member and date
func (h *Attendance) Create() *query.Mutation[models.CreateAttendanceInput, *models.SabbathAttendance] {
	return write(h.c, access.Attendance, access.Create, h.c.services.Attendance.Create, h.invalidate, h.ownFamily)
}

// Record stores the attendance of one member on one date. When a record for
// the pair already exists it is updated instead of duplicated, which a
// family-scoped session may only do for its own family's record.
func (h *Attendance) Record() *query.Mutation[models.CreateAttendanceInput, *models.SabbathAttendance] {
	c := h.c
	svc := c.services.Attendance
	upsert := func(ctx context.Context, in models.CreateAttendanceInput) (*models.SabbathAttendance, error) {
		existing, err := svc.GetAll(ctx, models.AttendanceFilter{MemberID: in.MemberID, Date: in.Date})
		if err != nil {
			return nil, err
		}
		for _, rec := range existing {
			if rec.MemberID != in.MemberID || rec.Date != in.Date {
				continue
			}
			if c.familyScoped() {
				if err := c.checkFamily(access.Attendance, access.Update, rec.Family); err != nil {
					return nil, err
				}
			}
			return svc.Update(ctx, in.UpdateFrom(rec.ID))
		}
		return svc.Create(ctx, in)
	}
	return write(c, access.Attendance, access.Create, upsert, h.invalidate, h.ownFamily)
}

// Update changes an existing record of the session's own family
func (h *Attendance) Update() *query.Mutation[models.UpdateAttendanceCommand, *models.SabbathAttendance] {
	c := h.c
	return write(c, access.Attendance, access.Update, c.services.Attendance.Update,
		func(cmd models.UpdateAttendanceCommand, _ *models.SabbathAttendance) []cache.Key {
			return []cache.Key{AttendanceKey, itemKey(AttendanceKey, cmd.ID)}
		},
		func(ctx context.Context, cmd models.UpdateAttendanceCommand) error {
			if !c.familyScoped() {
				return nil
			}
			rec, err := h.Get(cmd.ID).Get(ctx)
			if err != nil {
				return err
			}
			if rec == nil {
				return nil
			}
			return c.checkFamily(access.Attendance, access.Update, rec.Family)
		})
}
