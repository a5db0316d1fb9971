package request

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo     repository.RequestRepository
	userRepo repository.UserRepository
	activity *activity.Service
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo repository.RequestRepository, userRepo repository.UserRepository,
	activitySvc *activity.Service, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		activity: activitySvc,
		metrics:  m,
		logger:   logger.With().Str("component", "request").Logger(),
		now:      time.Now,
	}
}

// List returns every request for admins and the caller's own otherwise,
// newest first. Requests created at the same instant keep insertion order.
func (s *Service) List(ctx context.Context, requester *model.Identity) ([]*model.Request, error) {
	userID := requester.UserID
	if requester.IsAdmin() {
		userID = ""
	}
	reqs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
	return reqs, nil
}

// PendingCount counts pending requests visible to requester.
func (s *Service) PendingCount(ctx context.Context, requester *model.Identity) (int, error) {
	reqs, err := s.List(ctx, requester)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range reqs {
		if r.Status == model.RequestPending {
			n++
		}
	}
	return n, nil
}

// CountByType counts all requests of typ.
func (s *Service) CountByType(ctx context.Context, typ model.RequestType) (int, error) {
	reqs, err := s.repo.List(ctx, "")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range reqs {
		if r.Type == typ {
			n++
		}
	}
	return n, nil
}

func (s *Service) SubmitVacation(ctx context.Context, in *model.VacationRequest, requester *model.Identity) (*model.Request, error) {
	if err := validateDate("date", in.Date); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.VacationType) == "" {
		return nil, apperrors.Validation("vacationType is required", nil)
	}

	req := s.newRequest(requester, model.RequestVacation, in.Reason)
	req.Date = in.Date
	req.VacationType = in.VacationType
	if err := s.submit(ctx, req, activity.IconVacation, fmt.Sprintf("%s requested a vacation.", requester.Name)); err != nil {
		return nil, err
	}
	return req, nil
}

// SubmitScheduleChange fails with NotFound, writing nothing, when the
// exchange partner does not exist.
func (s *Service) SubmitScheduleChange(ctx context.Context, in *model.ScheduleChangeRequest, requester *model.Identity) (*model.Request, error) {
	if err := validateDate("myDate", in.MyDate); err != nil {
		return nil, err
	}
	if err := validateDate("theirDate", in.TheirDate); err != nil {
		return nil, err
	}
	if in.ExchangeWith == requester.UserID {
		return nil, apperrors.Validation("cannot exchange a shift with yourself", nil)
	}

	partner, err := s.userRepo.GetByID(ctx, in.ExchangeWith)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.NotFound("exchange partner")
		}
		return nil, err
	}

	req := s.newRequest(requester, model.RequestScheduleChange, in.Reason)
	req.ExchangeWith = partner.ID
	req.ExchangeWithName = partner.Name
	req.MyDate = in.MyDate
	req.TheirDate = in.TheirDate
	if err := s.submit(ctx, req, activity.IconScheduleChange, fmt.Sprintf("%s requested a schedule exchange.", requester.Name)); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) SubmitRoomRequest(ctx context.Context, in *model.RoomPreferenceRequest, requester *model.Identity) (*model.Request, error) {
	if strings.TrimSpace(in.PreferredRoom) == "" {
		return nil, apperrors.Validation("preferredRoom is required", nil)
	}
	if in.PreferredTime != nil && !in.PreferredTime.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown time slot %q", *in.PreferredTime), nil)
	}

	req := s.newRequest(requester, model.RequestRoom, in.Reason)
	req.PreferredRoom = in.PreferredRoom
	if in.PreferredTime != nil {
		slot := *in.PreferredTime
		req.PreferredTime = &slot
	}
	if err := s.submit(ctx, req, activity.IconRoom, fmt.Sprintf("%s requested a room assignment.", requester.Name)); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) newRequest(requester *model.Identity, typ model.RequestType, reason string) *model.Request {
	now := s.now()
	return &model.Request{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:    requester.UserID,
		UserName:  requester.Name,
		Type:      typ,
		Status:    model.RequestPending,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: now,
	}
}

func (s *Service) submit(ctx context.Context, req *model.Request, icon, message string) error {
	if err := s.repo.Create(ctx, req); err != nil {
		return err
	}
	s.metrics.RequestsSubmitted.WithLabelValues(string(req.Type)).Inc()
	s.logger.Info().Str("request_id", req.ID).Str("type", string(req.Type)).Str("user_id", req.UserID).Msg("request submitted")
	if err := s.activity.Record(ctx, model.ActivityRequest, icon, message); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func validateDate(field, v string) error {
	if _, err := time.Parse(dateLayout, v); err != nil {
		return apperrors.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field), err)
	}
	return nil
}
