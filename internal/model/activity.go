package model

import "time"

type ActivityType string

const (
	ActivityLogin      ActivityType = "login"
	ActivityRequest    ActivityType = "request"
	ActivityAssignment ActivityType = "assignment"
	ActivitySchedule   ActivityType = "schedule"
	ActivityRoom       ActivityType = "room"
	ActivityStaff      ActivityType = "staff"
)

// ActivityEntry is one line of the activity feed. Seed entries carry a
// fixed Time and no Timestamp.
type ActivityEntry struct {
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Time      string       `json:"time"`
	Icon      string       `json:"icon"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}
