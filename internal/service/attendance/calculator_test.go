package attendance

import (
	"testing"
	"time"

	domain "github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
)

var testLoc = time.FixedZone("PKT", 5*3600)

func morningShift() settings.ShiftConfig {
	return settings.ShiftConfig{
		Name:                       "Morning",
		StartHour:                  9,
		EndHour:                    15,
		LateThresholdMinutes:       60,
		EarlyLeaveThresholdMinutes: 60,
		NoCheckoutLateMinutes:      60,
		MinHoursForPresent:         4,
	}
}

func nightShift() settings.ShiftConfig {
	return settings.ShiftConfig{
		Name:                       "Night",
		StartHour:                  22,
		EndHour:                    6,
		LateThresholdMinutes:       60,
		EarlyLeaveThresholdMinutes: 60,
		NoCheckoutLateMinutes:      60,
		MinHoursForPresent:         5,
	}
}

func at(t *testing.T, day string, hour, minute int) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, testLoc)
}

func TestCalculateOnTimeCheckInIsPresent(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 9, 30)
	out := calc.Calculate(checkIn, nil, morningShift(), checkIn, testLoc)

	assert.Equal(t, domain.StatusPresent, out.Status)
	assert.False(t, out.IsLate)
	assert.Zero(t, out.LateByMinutes)
}

func TestCalculateLateCheckIn(t *testing.T) {
	calc := NewStatusCalculator()

	// Threshold is 10:00; 10:05 is five minutes past it.
	checkIn := at(t, "2025-03-10", 10, 5)
	out := calc.Calculate(checkIn, nil, morningShift(), checkIn, testLoc)

	assert.Equal(t, domain.StatusLate, out.Status)
	assert.True(t, out.IsLate)
	assert.Equal(t, 5, out.LateByMinutes)
}

func TestCalculateCheckInExactlyAtThresholdIsNotLate(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 10, 0)
	out := calc.Calculate(checkIn, nil, morningShift(), checkIn, testLoc)

	assert.False(t, out.IsLate)
	assert.Equal(t, domain.StatusPresent, out.Status)
}

func TestCalculateEarlyLeave(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 9, 0)
	checkOut := at(t, "2025-03-10", 13, 30)
	out := calc.Calculate(checkIn, &checkOut, morningShift(), checkOut, testLoc)

	// Early-leave threshold is 14:00; 13:30 is half an hour short.
	assert.Equal(t, domain.StatusEarlyLeave, out.Status)
	assert.True(t, out.IsEarlyLeave)
	assert.Equal(t, 30, out.EarlyByMinutes)
	assert.InDelta(t, 4.5, out.HoursWorked, 0.001)
}

func TestCalculateLateAndEarlyLeave(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 10, 30)
	checkOut := at(t, "2025-03-10", 15, 30)
	out := calc.Calculate(checkIn, &checkOut, morningShift(), checkOut, testLoc)

	assert.Equal(t, domain.StatusLate, out.Status)
	assert.True(t, out.IsLate)
	assert.False(t, out.IsEarlyLeave)
	assert.InDelta(t, 5.0, out.HoursWorked, 0.001)

	// With the 4h minimum a late arrival can never leave early without
	// also dropping under it, so relax the minimum to see the combined
	// status.
	relaxed := morningShift()
	relaxed.MinHoursForPresent = 2

	checkOutEarly := at(t, "2025-03-10", 13, 0)
	out = calc.Calculate(checkIn, &checkOutEarly, relaxed, checkOutEarly, testLoc)

	assert.Equal(t, domain.StatusLateEarlyLeave, out.Status)
	assert.True(t, out.IsLate)
	assert.True(t, out.IsEarlyLeave)
}

func TestCalculateIncompleteUnderMinimumHours(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 9, 0)
	checkOut := at(t, "2025-03-10", 10, 30)
	out := calc.Calculate(checkIn, &checkOut, morningShift(), checkOut, testLoc)

	assert.Equal(t, domain.StatusIncomplete, out.Status)
	assert.InDelta(t, 1.5, out.HoursWorked, 0.001)
}

func TestCalculateOpenRecordPastGraceIsNoCheckout(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 9, 0)
	now := at(t, "2025-03-10", 16, 30)
	out := calc.Calculate(checkIn, nil, morningShift(), now, testLoc)

	assert.Equal(t, domain.StatusNoCheckout, out.Status)
	assert.True(t, out.NoCheckoutLate)
	// Hours are capped at the 15:00 shift end, not the current time.
	assert.InDelta(t, 6.0, out.HoursWorked, 0.001)
}

func TestCalculateOpenRecordPastGraceWithLateCheckIn(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 10, 30)
	now := at(t, "2025-03-10", 17, 0)
	out := calc.Calculate(checkIn, nil, morningShift(), now, testLoc)

	assert.Equal(t, domain.StatusLateNoCheckout, out.Status)
	assert.True(t, out.IsLate)
	assert.InDelta(t, 4.5, out.HoursWorked, 0.001)
}

func TestCalculateOpenRecordWithinGraceShowsLiveHours(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 9, 0)
	now := at(t, "2025-03-10", 12, 0)
	out := calc.Calculate(checkIn, nil, morningShift(), now, testLoc)

	assert.Equal(t, domain.StatusPresent, out.Status)
	assert.False(t, out.NoCheckoutLate)
	assert.InDelta(t, 3.0, out.HoursWorked, 0.001)
}

func TestCalculateCrossMidnightShift(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 22, 30)
	checkOut := at(t, "2025-03-11", 5, 0)
	out := calc.Calculate(checkIn, &checkOut, nightShift(), checkOut, testLoc)

	assert.Equal(t, domain.StatusPresent, out.Status)
	assert.False(t, out.IsLate)
	assert.False(t, out.IsEarlyLeave)
	assert.InDelta(t, 6.5, out.HoursWorked, 0.001)

	// The window is anchored to the check-in date: 22:00 that night
	// through 06:00 the next morning.
	assert.Equal(t, at(t, "2025-03-10", 22, 0), out.ShiftStart)
	assert.Equal(t, at(t, "2025-03-11", 6, 0), out.ShiftEnd)
}

func TestCalculateCrossMidnightEarlyLeave(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 22, 0)
	checkOut := at(t, "2025-03-11", 4, 0)
	out := calc.Calculate(checkIn, &checkOut, nightShift(), checkOut, testLoc)

	// Threshold is 05:00 next day.
	assert.Equal(t, domain.StatusEarlyLeave, out.Status)
	assert.True(t, out.IsEarlyLeave)
	assert.Equal(t, 60, out.EarlyByMinutes)
}

func TestCalculateHoursRoundedToTwoDecimals(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 9, 0)
	checkOut := checkIn.Add(4*time.Hour + 20*time.Minute)
	out := calc.Calculate(checkIn, &checkOut, morningShift(), checkOut, testLoc)

	assert.Equal(t, 4.33, out.HoursWorked)
}

func TestCalculateIsReferentiallyTransparent(t *testing.T) {
	calc := NewStatusCalculator()

	checkIn := at(t, "2025-03-10", 10, 5)
	now := at(t, "2025-03-10", 16, 30)

	first := calc.Calculate(checkIn, nil, morningShift(), now, testLoc)
	second := calc.Calculate(checkIn, nil, morningShift(), now, testLoc)

	assert.Equal(t, first, second)
}
