package attendance

import (
	"math"
	"time"

	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
)

// Outcome is the full classification of one record at one instant.
type Outcome struct {
	Status         attendance.Status
	IsLate         bool
	IsEarlyLeave   bool
	NoCheckoutLate bool
	HoursWorked    float64
	LateByMinutes  int
	EarlyByMinutes int
	ShiftStart     time.Time
	ShiftEnd       time.Time
}

// StatusCalculator classifies a day's attendance from the two timestamps,
// the shift policy and the current time. Pure: no I/O, no clock reads;
// identical inputs always produce identical outcomes.
type StatusCalculator struct {
}

func NewStatusCalculator() *StatusCalculator {
	return &StatusCalculator{}
}

// statusContext is the boolean summary the selection rules run against.
type statusContext struct {
	closed         bool
	isLate         bool
	isEarlyLeave   bool
	noCheckoutLate bool
	underMinHours  bool
}

// statusRules encode the selection priority as an ordered predicate list.
// First match wins; the final rule always matches.
var statusRules = []struct {
	match  func(c statusContext) bool
	status attendance.Status
}{
	{func(c statusContext) bool { return !c.closed && c.noCheckoutLate && c.isLate }, attendance.StatusLateNoCheckout},
	{func(c statusContext) bool { return !c.closed && c.noCheckoutLate }, attendance.StatusNoCheckout},
	{func(c statusContext) bool { return !c.closed && c.isLate }, attendance.StatusLate},
	{func(c statusContext) bool { return !c.closed }, attendance.StatusPresent},
	{func(c statusContext) bool { return c.underMinHours }, attendance.StatusIncomplete},
	{func(c statusContext) bool { return c.isLate && c.isEarlyLeave }, attendance.StatusLateEarlyLeave},
	{func(c statusContext) bool { return c.isLate }, attendance.StatusLate},
	{func(c statusContext) bool { return c.isEarlyLeave }, attendance.StatusEarlyLeave},
	{func(c statusContext) bool { return true }, attendance.StatusPresent},
}

// Calculate classifies a record. The shift window is anchored to the
// calendar date of checkIn in loc; a shift whose end hour is not after its
// start hour ends on the next day. checkOut nil means the record is still
// open and the outcome depends on now.
func (c *StatusCalculator) Calculate(checkIn time.Time, checkOut *time.Time, shift settings.ShiftConfig, now time.Time, loc *time.Location) Outcome {
	in := checkIn.In(loc)

	shiftStart := time.Date(in.Year(), in.Month(), in.Day(), shift.StartHour, 0, 0, 0, loc)
	shiftEnd := time.Date(in.Year(), in.Month(), in.Day(), shift.EndHour, 0, 0, 0, loc)
	if shift.CrossesMidnight() {
		shiftEnd = shiftEnd.AddDate(0, 0, 1)
	}

	out := Outcome{
		ShiftStart: shiftStart,
		ShiftEnd:   shiftEnd,
	}

	lateThreshold := shiftStart.Add(time.Duration(shift.LateThresholdMinutes) * time.Minute)
	if in.After(lateThreshold) {
		out.IsLate = true
		out.LateByMinutes = int(in.Sub(lateThreshold).Minutes())
	}

	if checkOut != nil {
		co := checkOut.In(loc)
		earlyLeaveThreshold := shiftEnd.Add(-time.Duration(shift.EarlyLeaveThresholdMinutes) * time.Minute)
		if co.Before(earlyLeaveThreshold) {
			out.IsEarlyLeave = true
			out.EarlyByMinutes = int(earlyLeaveThreshold.Sub(co).Minutes())
		}
		out.HoursWorked = roundHours(co.Sub(in).Hours())
	} else {
		noCheckoutThreshold := shiftEnd.Add(time.Duration(shift.NoCheckoutLateMinutes) * time.Minute)
		if now.In(loc).After(noCheckoutThreshold) {
			out.NoCheckoutLate = true
			// Cap at the nominal shift end instead of growing unbounded.
			out.HoursWorked = roundHours(math.Max(0, shiftEnd.Sub(in).Hours()))
		} else {
			// Live estimate while still clocked in.
			out.HoursWorked = roundHours(math.Max(0, now.In(loc).Sub(in).Hours()))
		}
	}

	sc := statusContext{
		closed:         checkOut != nil,
		isLate:         out.IsLate,
		isEarlyLeave:   out.IsEarlyLeave,
		noCheckoutLate: out.NoCheckoutLate,
		underMinHours:  checkOut != nil && out.HoursWorked < shift.MinHoursForPresent,
	}
	for _, rule := range statusRules {
		if rule.match(sc) {
			out.Status = rule.status
			break
		}
	}

	return out
}

// roundHours rounds to 2 decimal places, the precision persisted and reported.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
