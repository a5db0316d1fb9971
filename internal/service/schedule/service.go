package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/assignment"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// RoomLister supplies the room ids generated months draw from.
type RoomLister interface {
	IDs(ctx context.Context) ([]string, error)
}

type Service struct {
	repo      repository.ScheduleRepository
	rooms     RoomLister
	generator assignment.Generator
	activity  *activity.Service
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo repository.ScheduleRepository, rooms RoomLister, generator assignment.Generator,
	activitySvc *activity.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		rooms:     rooms,
		generator: generator,
		activity:  activitySvc,
		logger:    logger.With().Str("component", "schedule").Logger(),
		now:       time.Now,
	}
}

// ValidateMonth checks a (year, month) key.
func ValidateMonth(year, month int) error {
	if year < MinYear || year > MaxYear {
		return apperrors.Validation(fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear), nil)
	}
	if month < 1 || month > 12 {
		return apperrors.Validation("month must be between 1 and 12", nil)
	}
	return nil
}

// GetOrCreate returns the stored month, generating it on first access. Later
// reads return the stored month unchanged.
func (s *Service) GetOrCreate(ctx context.Context, year, month int) (*model.ScheduleMonth, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}
	roomIDs, err := s.rooms.IDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, year, month, func(y, m int) map[int]model.DaySchedule {
		s.logger.Debug().Int("year", y).Int("month", m).Msg("generating month")
		return s.generator.Month(y, m, roomIDs)
	})
}

// Save replaces the month wholesale. Days off are stored without a shift or
// room.
func (s *Service) Save(ctx context.Context, year, month int, days map[int]model.DaySchedule, by *model.Identity) (*model.ScheduleMonth, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}
	if days == nil {
		return nil, apperrors.Validation("days is required", nil)
	}
	last := model.DaysIn(year, month)
	clean := make(map[int]model.DaySchedule, len(days))
	for d, day := range days {
		if d < 1 || d > last {
			return nil, apperrors.Validation(fmt.Sprintf("day %d is outside %d-%02d", d, year, month), nil)
		}
		if day.Shift != nil && !day.Shift.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("day %d: unknown shift %q", d, *day.Shift), nil)
		}
		day.Date = d
		if !day.IsWorkDay {
			day.Shift, day.Room = nil, nil
		}
		clean[d] = day
	}

	now := s.now()
	m := &model.ScheduleMonth{
		Year:      year,
		Month:     month,
		Days:      clean,
		UpdatedBy: by.UserID,
		UpdatedAt: &now,
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().Int("year", year).Int("month", month).Str("user_id", by.UserID).Msg("schedule saved")
	if err := s.activity.Record(ctx, model.ActivitySchedule, activity.IconSchedule,
		fmt.Sprintf("%s updated the schedule for %d-%02d.", by.Name, year, month)); err != nil {
		return nil, apperrors.Internal(err)
	}
	return m.Clone(), nil
}
