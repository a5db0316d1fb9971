package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
)

type monthKey struct {
	year, month int
}

func (k monthKey) String() string {
	return fmt.Sprintf("%d-%02d", k.year, k.month)
}

type ScheduleRepository struct {
	mu     sync.Mutex
	months map[monthKey]*model.ScheduleMonth
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{months: make(map[monthKey]*model.ScheduleMonth)}
}

// GetOrCreate returns the stored month, generating and storing it on first
// access. Generation runs under the lock, so concurrent first reads agree.
func (r *ScheduleRepository) GetOrCreate(ctx context.Context, year, month int, generate repository.MonthGenerator) (*model.ScheduleMonth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := monthKey{year, month}
	if m, ok := r.months[key]; ok {
		return m.Clone(), nil
	}

	m := &model.ScheduleMonth{
		Year:  year,
		Month: month,
		Days:  generate(year, month),
	}
	r.months[key] = m
	return m.Clone(), nil
}

func (r *ScheduleRepository) Save(ctx context.Context, schedule *model.ScheduleMonth) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.months[monthKey{schedule.Year, schedule.Month}] = schedule.Clone()
	return nil
}
