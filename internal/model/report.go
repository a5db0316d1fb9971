package model

type Dashboard struct {
	MyShifts        int             `json:"myShifts"`
	AssignedRooms   int             `json:"assignedRooms"`
	PendingRequests int             `json:"pendingRequests"`
	TotalStaff      int             `json:"totalStaff"`
	Activities      []ActivityEntry `json:"activities"`
}

type Assignment struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	AssignedDays int    `json:"assignedDays"`
}

type StaffWorkDays struct {
	Name     string `json:"name"`
	WorkDays int    `json:"workDays"`
}

type Report struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalWorkDays    int             `json:"totalWorkDays"`
	TotalStaff       int             `json:"totalStaff"`
	VacationRequests int             `json:"vacationRequests"`
	RoomUtilization  int             `json:"roomUtilization"`
	StaffWorkDays    []StaffWorkDays `json:"staffWorkDays"`
}

// AutoAssignRequest optionally names the month to assign; zero fields mean
// the current one.
type AutoAssignRequest struct {
	Year  int `json:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `json:"month" binding:"omitempty,min=1,max=12"`
}
