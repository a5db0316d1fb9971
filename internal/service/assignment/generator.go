// Package assignment produces placeholder scheduling data: generated months,
// shift counts and report figures. No fairness or coverage rules are applied;
// the Generator interface is where a real assignment algorithm plugs in.
package assignment

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

const (
	ModeRandom  = "random"
	ModeSeeded  = "seeded"
	ModeFixture = "fixture"
)

// Ranges of the placeholder figures.
const (
	MinShiftCount   = 10
	MaxShiftCount   = 24
	MinAssignedDays = 13
	MaxAssignedDays = 17
	workDayPercent  = 70
)

type Generator interface {
	// Month builds every day of a month. Weekends are always off; working
	// days get a shift and, when rooms exist, one of roomIDs.
	Month(year, month int, roomIDs []string) map[int]model.DaySchedule
	// ShiftCount is the dashboard "my shifts" figure, in [10, 24].
	ShiftCount(userID string, year, month int) int
	// AssignedDays is the auto-assign result per staff member, in [13, 17].
	AssignedDays(userID string, year, month int) int
	// WorkDays is the report figure per staff member, in [13, 17].
	WorkDays(userID string, year, month int) int
	// RoomUtilization is a percentage in [0, 100].
	RoomUtilization(year, month int) int
}

// New returns the generator named by mode.
func New(mode string, seed uint64) (Generator, error) {
	switch mode {
	case "", ModeRandom:
		return NewRandom(), nil
	case ModeSeeded:
		return NewSeeded(seed), nil
	case ModeFixture:
		return Fixture{}, nil
	default:
		return nil, fmt.Errorf("unknown generator mode %q", mode)
	}
}

type randomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom draws from a time-seeded source.
func NewRandom() Generator {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// NewSeeded draws from a PCG source, so equal seeds replay equal sequences.
func NewSeeded(seed uint64) Generator {
	return &randomGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *randomGenerator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *randomGenerator) Month(year, month int, roomIDs []string) map[int]model.DaySchedule {
	g.mu.Lock()
	defer g.mu.Unlock()

	days := make(map[int]model.DaySchedule, 31)
	for d := 1; d <= model.DaysIn(year, month); d++ {
		day := model.DaySchedule{Date: d}
		if !model.IsWeekend(year, month, d) && g.rng.IntN(100) < workDayPercent {
			day.IsWorkDay = true
			shift := model.SlotMorning
			if g.rng.IntN(2) == 1 {
				shift = model.SlotAfternoon
			}
			day.Shift = &shift
			if len(roomIDs) > 0 {
				room := roomIDs[g.rng.IntN(len(roomIDs))]
				day.Room = &room
			}
		}
		days[d] = day
	}
	return days
}

func (g *randomGenerator) ShiftCount(string, int, int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.between(MinShiftCount, MaxShiftCount)
}

func (g *randomGenerator) AssignedDays(string, int, int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.between(MinAssignedDays, MaxAssignedDays)
}

func (g *randomGenerator) WorkDays(string, int, int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.between(MinAssignedDays, MaxAssignedDays)
}

func (g *randomGenerator) RoomUtilization(int, int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.between(60, 95)
}

// Fixture is fully deterministic and depends only on its arguments. Every
// weekday except each fifth date is worked; odd dates take the morning shift;
// rooms rotate by date.
type Fixture struct{}

// FixtureUtilization is the fixed room utilization percentage.
const FixtureUtilization = 85

func (Fixture) Month(year, month int, roomIDs []string) map[int]model.DaySchedule {
	days := make(map[int]model.DaySchedule, 31)
	for d := 1; d <= model.DaysIn(year, month); d++ {
		day := model.DaySchedule{Date: d}
		if !model.IsWeekend(year, month, d) && d%5 != 0 {
			day.IsWorkDay = true
			shift := model.SlotAfternoon
			if d%2 == 1 {
				shift = model.SlotMorning
			}
			day.Shift = &shift
			if len(roomIDs) > 0 {
				room := roomIDs[(d-1)%len(roomIDs)]
				day.Room = &room
			}
		}
		days[d] = day
	}
	return days
}

func (f Fixture) ShiftCount(_ string, year, month int) int {
	n := 0
	for _, d := range f.Month(year, month, nil) {
		if d.IsWorkDay {
			n++
		}
	}
	return clamp(n, MinShiftCount, MaxShiftCount)
}

func (Fixture) AssignedDays(string, int, int) int { return 15 }

func (Fixture) WorkDays(string, int, int) int { return 15 }

func (Fixture) RoomUtilization(int, int) int { return FixtureUtilization }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
