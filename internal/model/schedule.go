package model

import "time"

// DaySchedule is one calendar day of a month schedule. Shift and Room are
// nil on days off.
type DaySchedule struct {
	Date      int       `json:"date"`
	IsWorkDay bool      `json:"isWorkDay"`
	Shift     *TimeSlot `json:"shift"`
	Room      *string   `json:"room"`
	Notes     string    `json:"notes"`
}

// ScheduleMonth is keyed by (Year, Month); Days is keyed by day of month.
type ScheduleMonth struct {
	Year      int                 `json:"year"`
	Month     int                 `json:"month"`
	Days      map[int]DaySchedule `json:"days"`
	UpdatedBy string              `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time          `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy so callers cannot alias stored state.
func (m *ScheduleMonth) Clone() *ScheduleMonth {
	if m == nil {
		return nil
	}
	out := *m
	out.Days = make(map[int]DaySchedule, len(m.Days))
	for k, d := range m.Days {
		if d.Shift != nil {
			s := *d.Shift
			d.Shift = &s
		}
		if d.Room != nil {
			r := *d.Room
			d.Room = &r
		}
		out.Days[k] = d
	}
	if m.UpdatedAt != nil {
		t := *m.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

// SaveScheduleRequest is the body of a schedule save.
type SaveScheduleRequest struct {
	Days map[int]DaySchedule `json:"days" binding:"required"`
}

// DaysIn returns the number of days in month of year.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsWeekend reports whether the given date falls on Saturday or Sunday.
func IsWeekend(year, month, day int) bool {
	wd := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdaysIn counts Monday–Friday dates in the month.
func WeekdaysIn(year, month int) int {
	n := 0
	for d := 1; d <= DaysIn(year, month); d++ {
		if !IsWeekend(year, month, d) {
			n++
		}
	}
	return n
}
