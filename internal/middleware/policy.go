package middleware

import (
	"fmt"
	"sort"
	"strings"
)

// Operation names a protected API operation in the authorization table.
type Operation string

const (
	OpLogout               Operation = "auth.logout"
	OpMe                   Operation = "auth.me"
	OpDashboard            Operation = "dashboard.view"
	OpScheduleView         Operation = "schedules.view"
	OpScheduleSave         Operation = "schedules.save"
	OpRequestList          Operation = "requests.list"
	OpRequestVacation      Operation = "requests.vacation"
	OpRequestScheduleSwap  Operation = "requests.schedule_change"
	OpRequestRoom          Operation = "requests.room"
	OpRoomList             Operation = "rooms.list"
	OpRoomUpdate           Operation = "rooms.update"
	OpRoomConfigure        Operation = "rooms.configure"
	OpStaffList            Operation = "staff.list"
	OpStaffCreate          Operation = "staff.create"
	OpStaffUpdate          Operation = "staff.update"
	OpStaffDelete          Operation = "staff.delete"
	OpAutoAssign           Operation = "admin.auto_assign"
	OpReport               Operation = "admin.report"
	OpReportExport         Operation = "admin.report_export"
)

// Policy is who may perform an operation once authenticated.
type Policy string

const (
	PolicyAny   Policy = "any"
	PolicyAdmin Policy = "admin"
)

// Policies maps each operation to its policy. Operations missing from the
// table are admin-only.
type Policies map[Operation]Policy

func DefaultPolicies() Policies {
	return Policies{
		OpLogout:              PolicyAny,
		OpMe:                  PolicyAny,
		OpDashboard:           PolicyAny,
		OpScheduleView:        PolicyAny,
		OpScheduleSave:        PolicyAny,
		OpRequestList:         PolicyAny,
		OpRequestVacation:     PolicyAny,
		OpRequestScheduleSwap: PolicyAny,
		OpRequestRoom:         PolicyAny,
		OpRoomList:            PolicyAny,
		OpRoomUpdate:          PolicyAdmin,
		OpRoomConfigure:       PolicyAdmin,
		OpStaffList:           PolicyAdmin,
		OpStaffCreate:         PolicyAdmin,
		OpStaffUpdate:         PolicyAdmin,
		OpStaffDelete:         PolicyAdmin,
		OpAutoAssign:          PolicyAdmin,
		OpReport:              PolicyAdmin,
		OpReportExport:        PolicyAdmin,
	}
}

// ParsePolicies applies overrides (operation name to "any" or "admin") on top
// of the defaults. Unknown operations and values are rejected.
func ParsePolicies(overrides map[string]string) (Policies, error) {
	p := DefaultPolicies()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		op := Operation(strings.TrimSpace(name))
		if _, ok := p[op]; !ok {
			return nil, fmt.Errorf("unknown operation %q in authorization policy", name)
		}
		switch v := Policy(strings.ToLower(strings.TrimSpace(overrides[name]))); v {
		case PolicyAny, PolicyAdmin:
			p[op] = v
		default:
			return nil, fmt.Errorf("invalid policy %q for operation %s: want any or admin", overrides[name], name)
		}
	}
	return p, nil
}

func (p Policies) For(op Operation) Policy {
	if v, ok := p[op]; ok {
		return v
	}
	return PolicyAdmin
}
