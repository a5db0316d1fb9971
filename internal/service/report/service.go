// Package report assembles the read-mostly views: the dashboard summary, the
// admin auto-assign result and the monthly report with its workbook export.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/assignment"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/request"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/room"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/schedule"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/staff"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

type Service struct {
	staff     *staff.Service
	rooms     *room.Service
	requests  *request.Service
	activity  *activity.Service
	generator assignment.Generator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(staffSvc *staff.Service, roomSvc *room.Service, requestSvc *request.Service,
	activitySvc *activity.Service, generator assignment.Generator, logger zerolog.Logger) *Service {
	return &Service{
		staff:     staffSvc,
		rooms:     roomSvc,
		requests:  requestSvc,
		activity:  activitySvc,
		generator: generator,
		logger:    logger.With().Str("component", "report").Logger(),
		now:       time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context, caller *model.Identity) (*model.Dashboard, error) {
	now := s.now()

	assigned, err := s.rooms.AssignedTo(ctx, caller.Name)
	if err != nil {
		return nil, err
	}
	pending, err := s.requests.PendingCount(ctx, caller)
	if err != nil {
		return nil, err
	}
	total, err := s.staff.Count(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := s.activity.Recent(ctx, activity.FeedSize)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		MyShifts:        s.generator.ShiftCount(caller.UserID, now.Year(), int(now.Month())),
		AssignedRooms:   assigned,
		PendingRequests: pending,
		TotalStaff:      total,
		Activities:      feed,
	}, nil
}

// AutoAssign produces a placeholder day count for every non-admin member.
// A zero year or month means the current one.
func (s *Service) AutoAssign(ctx context.Context, year, month int) ([]model.Assignment, error) {
	year, month = s.defaultMonth(year, month)
	if err := schedule.ValidateMonth(year, month); err != nil {
		return nil, err
	}

	members, err := s.staff.NonAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Assignment, len(members))
	for i, u := range members {
		out[i] = model.Assignment{
			UserID:       u.ID,
			Name:         u.Name,
			AssignedDays: s.generator.AssignedDays(u.ID, year, month),
		}
	}

	s.logger.Info().Int("year", year).Int("month", month).Int("staff", len(out)).Msg("auto-assign completed")
	if err := s.activity.Record(ctx, model.ActivitySchedule, activity.IconAutoAssign,
		"Automatic schedule assignment completed."); err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) Report(ctx context.Context, year, month int) (*model.Report, error) {
	if err := schedule.ValidateMonth(year, month); err != nil {
		return nil, err
	}

	members, err := s.staff.NonAdmins(ctx)
	if err != nil {
		return nil, err
	}
	vacations, err := s.requests.CountByType(ctx, model.RequestVacation)
	if err != nil {
		return nil, err
	}

	days := make([]model.StaffWorkDays, len(members))
	for i, u := range members {
		days[i] = model.StaffWorkDays{Name: u.Name, WorkDays: s.generator.WorkDays(u.ID, year, month)}
	}

	return &model.Report{
		Year:             year,
		Month:            month,
		TotalWorkDays:    model.WeekdaysIn(year, month),
		TotalStaff:       len(members),
		VacationRequests: vacations,
		RoomUtilization:  s.generator.RoomUtilization(year, month),
		StaffWorkDays:    days,
	}, nil
}

// ExportFilename is the download name of a month's workbook.
func ExportFilename(year, month int) string {
	return fmt.Sprintf("staff-report-%d-%02d.xlsx", year, month)
}

func (s *Service) defaultMonth(year, month int) (int, int) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}
