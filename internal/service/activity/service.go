package activity

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
)

// Feed icons.
const (
	IconLogin          = "fa-sign-in-alt"
	IconVacation       = "fa-calendar-times"
	IconScheduleChange = "fa-exchange-alt"
	IconRoom           = "fa-door-open"
	IconStaffAdd       = "fa-user-plus"
	IconStaffEdit      = "fa-user-edit"
	IconStaffDelete    = "fa-user-minus"
	IconSchedule       = "fa-calendar-alt"
	IconAutoAssign     = "fa-magic"
)

// FeedSize is how many entries the dashboard shows.
const FeedSize = 10

type Service struct {
	repo    repository.ActivityRepository
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo repository.ActivityRepository, logger zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logger.With().Str("component", "activity").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// Record appends a timestamped entry to the feed.
func (s *Service) Record(ctx context.Context, typ model.ActivityType, icon, message string) error {
	now := s.now()
	entry := model.ActivityEntry{
		Type:      typ,
		Message:   message,
		Time:      humanize.RelTime(now, now, "ago", "from now"),
		Icon:      icon,
		Timestamp: &now,
	}
	if err := s.repo.Record(ctx, entry); err != nil {
		return err
	}

	s.metrics.ActivitiesRecorded.WithLabelValues(string(typ)).Inc()
	s.logger.Info().
		Str("type", string(typ)).
		Str("icon", icon).
		Msg(message)
	return nil
}

// Recent returns up to n entries, newest first. Entries with a timestamp get
// their display time rendered relative to now.
func (s *Service) Recent(ctx context.Context, n int) ([]model.ActivityEntry, error) {
	entries, err := s.repo.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range entries {
		if ts := entries[i].Timestamp; ts != nil {
			entries[i].Time = humanize.RelTime(*ts, now, "ago", "from now")
		}
	}
	return entries, nil
}
