package room

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

// MaxRooms bounds a layout reconfiguration.
const MaxRooms = 20

type Service struct {
	repo     repository.RoomRepository
	activity *activity.Service
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo repository.RoomRepository, activitySvc *activity.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		activity: activitySvc,
		logger:   logger.With().Str("component", "room").Logger(),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]*model.Room, error) {
	return s.repo.List(ctx)
}

// IDs returns the current room ids in list order.
func (s *Service) IDs(ctx context.Context) ([]string, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	return ids, nil
}

// SetStatus replaces the room's status, assignee and time slot in one step.
// Absent assignee or slot clear the stored value.
func (s *Service) SetStatus(ctx context.Context, roomID string, update model.RoomUpdate) (*model.Room, error) {
	if !update.Status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown room status %q", update.Status), nil)
	}
	if update.TimeSlot != nil && !update.TimeSlot.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown time slot %q", *update.TimeSlot), nil)
	}
	if update.AssignedTo != nil && strings.TrimSpace(*update.AssignedTo) == "" {
		update.AssignedTo = nil
	}

	room, err := s.repo.Replace(ctx, roomID, update, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("room_id", roomID).Str("status", string(room.Status)).Msg("room updated")
	if err := s.activity.Record(ctx, model.ActivityRoom, activity.IconRoom,
		fmt.Sprintf("Room assignment for %s was updated.", roomID)); err != nil {
		return nil, apperrors.Internal(err)
	}
	return room, nil
}

// Configure replaces the whole collection with count empty rooms named
// room1..roomN.
func (s *Service) Configure(ctx context.Context, count int) ([]*model.Room, error) {
	if count < 1 || count > MaxRooms {
		return nil, apperrors.Validation(fmt.Sprintf("room count must be between 1 and %d", MaxRooms), nil)
	}

	rooms := make([]*model.Room, count)
	for i := range rooms {
		rooms[i] = &model.Room{
			ID:     fmt.Sprintf("room%d", i+1),
			Name:   fmt.Sprintf("Room %d", i+1),
			Status: model.RoomAvailable,
		}
	}
	if err := s.repo.ReplaceAll(ctx, rooms); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", count).Msg("rooms reconfigured")
	if err := s.activity.Record(ctx, model.ActivityRoom, activity.IconRoom,
		fmt.Sprintf("Room layout was set to %d rooms.", count)); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.repo.List(ctx)
}

// AssignedTo counts rooms whose assignee is name.
func (s *Service) AssignedTo(ctx context.Context, name string) (int, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rooms {
		if r.AssignedTo != nil && *r.AssignedTo == name {
			n++
		}
	}
	return n, nil
}
