package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository/memory"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/assignment"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/logger"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
)

type staticRooms []string

func (r staticRooms) IDs(context.Context) ([]string, error) { return r, nil }

var nurse = &model.Identity{UserID: "002", Name: "Nurse Lee", Role: model.RoleNurse}

func setup(t *testing.T, gen assignment.Generator) (*Service, *activity.Service) {
	t.Helper()
	store := memory.NewStore(nil)
	act := activity.NewService(store.Activities, logger.Nop(), metrics.NewMetrics("test"))
	return NewService(store.Schedules, staticRooms{"room1", "room2"}, gen, act, logger.Nop()), act
}

func TestGetOrCreate_StableAcrossReads(t *testing.T) {
	svc, _ := setup(t, assignment.NewRandom())
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Len(t, first.Days, 31)

	for i := 0; i < 5; i++ {
		again, err := svc.GetOrCreate(ctx, 2024, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetOrCreate_UsesGenerator(t *testing.T) {
	svc, _ := setup(t, assignment.Fixture{})

	m, err := svc.GetOrCreate(context.Background(), 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, assignment.Fixture{}.Month(2024, 3, []string{"room1", "room2"}), m.Days)
	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, 3, m.Month)
}

func TestGetOrCreate_RejectsBadKeys(t *testing.T) {
	svc, _ := setup(t, assignment.Fixture{})
	for _, ym := range [][2]int{{1999, 1}, {2101, 1}, {2024, 0}, {2024, 13}} {
		_, err := svc.GetOrCreate(context.Background(), ym[0], ym[1])
		assert.ErrorIs(t, err, apperrors.ErrValidation, "%v", ym)
	}
}

func TestSave_ReplacesWholesale(t *testing.T) {
	svc, act := setup(t, assignment.Fixture{})
	ctx := context.Background()
	at := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	_, err := svc.GetOrCreate(ctx, 2024, 2)
	require.NoError(t, err)

	shift := model.SlotAfternoon
	saved, err := svc.Save(ctx, 2024, 2, map[int]model.DaySchedule{
		29: {IsWorkDay: true, Shift: &shift, Notes: "leap day"},
	}, nurse)
	require.NoError(t, err)
	assert.Equal(t, "002", saved.UpdatedBy)
	assert.True(t, at.Equal(*saved.UpdatedAt))

	got, err := svc.GetOrCreate(ctx, 2024, 2)
	require.NoError(t, err)
	require.Len(t, got.Days, 1)
	assert.Equal(t, 29, got.Days[29].Date)
	assert.Equal(t, "leap day", got.Days[29].Notes)

	feed, err := act.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ActivitySchedule, feed[0].Type)
	assert.Equal(t, "Nurse Lee updated the schedule for 2024-02.", feed[0].Message)
}

func TestSave_DayOffDropsShiftAndRoom(t *testing.T) {
	svc, _ := setup(t, assignment.Fixture{})
	ctx := context.Background()

	shift, room := model.SlotMorning, "room1"
	saved, err := svc.Save(ctx, 2024, 3, map[int]model.DaySchedule{
		1: {IsWorkDay: false, Shift: &shift, Room: &room, Notes: "off"},
		4: {IsWorkDay: true, Shift: &shift, Room: &room},
	}, nurse)
	require.NoError(t, err)
	assert.Nil(t, saved.Days[1].Shift)
	assert.Nil(t, saved.Days[1].Room)
	assert.Equal(t, "off", saved.Days[1].Notes)

	got, err := svc.GetOrCreate(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Nil(t, got.Days[1].Shift)
	assert.Nil(t, got.Days[1].Room)
	require.NotNil(t, got.Days[4].Shift)
	assert.Equal(t, model.SlotMorning, *got.Days[4].Shift)
	require.NotNil(t, got.Days[4].Room)
	assert.Equal(t, "room1", *got.Days[4].Room)
}

func TestSave_Validation(t *testing.T) {
	svc, act := setup(t, assignment.Fixture{})
	ctx := context.Background()
	bad := model.TimeSlot("night")

	tests := []struct {
		name        string
		year, month int
		days        map[int]model.DaySchedule
	}{
		{"nil days", 2024, 2, nil},
		{"day past month end", 2023, 2, map[int]model.DaySchedule{29: {}}},
		{"day zero", 2024, 2, map[int]model.DaySchedule{0: {}}},
		{"bad shift", 2024, 2, map[int]model.DaySchedule{1: {Shift: &bad}}},
		{"bad month", 2024, 13, map[int]model.DaySchedule{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, tt.year, tt.month, tt.days, nurse)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	feed, err := act.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
