package attendance

import (
	"fmt"
	"time"

	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/incubase/attendance-backend-go/internal/domain/user"
	"github.com/incubase/attendance-backend-go/internal/pkg/validator"
)

// AdmissionGate decides whether a check-in/check-out attempt is allowed at
// all: source-network policy, shift assignment, and the time-of-day window.
// Idempotency denials (already checked in, etc.) stay with the lifecycle,
// which owns the record lookups.
type AdmissionGate struct {
	legacyIPAllowList []string
}

func NewAdmissionGate(legacyIPAllowList []string) *AdmissionGate {
	return &AdmissionGate{legacyIPAllowList: legacyIPAllowList}
}

// CheckNetwork enforces the IP allow-list: the settings list merged with the
// two legacy facility entries. An empty merged list means no restriction.
func (g *AdmissionGate) CheckNetwork(set settings.AttendanceSettings, clientIP string) error {
	allowList := make([]string, 0, len(set.IPAllowList)+len(g.legacyIPAllowList))
	allowList = append(allowList, set.IPAllowList...)
	allowList = append(allowList, g.legacyIPAllowList...)

	if len(allowList) == 0 {
		return nil
	}

	if !validator.IsInSlice(clientIP, allowList) {
		return fmt.Errorf("%w: requests from %s are not permitted", attendance.ErrNetworkRestricted, clientIP)
	}

	return nil
}

// ResolveShift returns the shift config a user is bound to, distinguishing
// "no shift assigned" (a caller problem) from "shift has no config"
// (an administrative misconfiguration).
func (g *AdmissionGate) ResolveShift(u user.User, set settings.AttendanceSettings) (settings.ShiftConfig, error) {
	if !u.HasShift() {
		return settings.ShiftConfig{}, attendance.ErrNoShiftAssigned
	}
	cfg, ok := set.ShiftConfig(*u.Shift)
	if !ok {
		return settings.ShiftConfig{}, fmt.Errorf("%w: %q", attendance.ErrShiftNotConfigured, *u.Shift)
	}
	return cfg, nil
}

// CheckInWindow enforces the admission window
// [shiftStart - allowance, shiftEnd - 1h). For cross-midnight shifts the
// window anchored to the previous day is also tried, so an 01:00 attempt
// for a 22-06 shift is admitted.
func (g *AdmissionGate) CheckInWindow(now time.Time, shift settings.ShiftConfig, allowanceMinutes int, loc *time.Location) error {
	nowLocal := now.In(loc)

	earliest, latest := g.windowFor(nowLocal, shift, allowanceMinutes, loc)
	if shift.CrossesMidnight() && nowLocal.Before(earliest) {
		earliest, latest = g.windowFor(nowLocal.AddDate(0, 0, -1), shift, allowanceMinutes, loc)
	}

	if nowLocal.Before(earliest) || !nowLocal.Before(latest) {
		return fmt.Errorf("%w: %s shift runs %02d:00-%02d:00, check-in is accepted %s-%s, current time is %s",
			attendance.ErrOutsideShiftWindow,
			shift.Name, shift.StartHour, shift.EndHour,
			earliest.Format("15:04"), latest.Format("15:04"),
			nowLocal.Format("15:04"),
		)
	}

	return nil
}

func (g *AdmissionGate) windowFor(day time.Time, shift settings.ShiftConfig, allowanceMinutes int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), shift.StartHour, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), shift.EndHour, 0, 0, 0, loc)
	if shift.CrossesMidnight() {
		end = end.AddDate(0, 0, 1)
	}
	return start.Add(-time.Duration(allowanceMinutes) * time.Minute), end.Add(-time.Hour)
}
