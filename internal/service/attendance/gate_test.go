package attendance

import (
	"testing"
	"time"

	domain "github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/incubase/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func testSettings() settings.AttendanceSettings {
	return settings.AttendanceSettings{
		Shifts: map[string]settings.ShiftConfig{
			"Morning": morningShift(),
			"Night":   nightShift(),
		},
		EarlyCheckInAllowanceMinutes: 60,
		Timezone:                     "Asia/Karachi",
		IPAllowList:                  []string{},
	}
}

func TestCheckNetworkEmptyAllowListIsOpen(t *testing.T) {
	gate := NewAdmissionGate(nil)

	err := gate.CheckNetwork(testSettings(), "198.51.100.7")
	assert.NoError(t, err)
}

func TestCheckNetworkLegacyIPsAlwaysAdmitted(t *testing.T) {
	gate := NewAdmissionGate([]string{"203.0.113.10", "203.0.113.11"})
	set := testSettings()
	set.IPAllowList = []string{"192.0.2.50"}

	assert.NoError(t, gate.CheckNetwork(set, "203.0.113.10"))
	assert.NoError(t, gate.CheckNetwork(set, "192.0.2.50"))

	err := gate.CheckNetwork(set, "198.51.100.7")
	assert.ErrorIs(t, err, domain.ErrNetworkRestricted)
}

func TestResolveShift(t *testing.T) {
	gate := NewAdmissionGate(nil)
	set := testSettings()

	_, err := gate.ResolveShift(user.User{}, set)
	assert.ErrorIs(t, err, domain.ErrNoShiftAssigned)

	ghost := "Graveyard"
	_, err = gate.ResolveShift(user.User{Shift: &ghost}, set)
	assert.ErrorIs(t, err, domain.ErrShiftNotConfigured)

	morning := "Morning"
	cfg, err := gate.ResolveShift(user.User{Shift: &morning}, set)
	assert.NoError(t, err)
	assert.Equal(t, 9, cfg.StartHour)
}

func TestCheckInWindowBoundaries(t *testing.T) {
	gate := NewAdmissionGate(nil)
	shift := morningShift()

	// Earliest allowed instant is 08:00, one hour before the shift.
	assert.NoError(t, gate.CheckInWindow(at(t, "2025-03-10", 8, 0), shift, 60, testLoc))

	err := gate.CheckInWindow(at(t, "2025-03-10", 7, 59), shift, 60, testLoc)
	assert.ErrorIs(t, err, domain.ErrOutsideShiftWindow)

	// Window closes one hour before the shift end: 14:00 is out, 13:59 in.
	assert.NoError(t, gate.CheckInWindow(at(t, "2025-03-10", 13, 59), shift, 60, testLoc))

	err = gate.CheckInWindow(at(t, "2025-03-10", 14, 0), shift, 60, testLoc)
	assert.ErrorIs(t, err, domain.ErrOutsideShiftWindow)
}

func TestCheckInWindowDenialNamesTheWindow(t *testing.T) {
	gate := NewAdmissionGate(nil)

	err := gate.CheckInWindow(at(t, "2025-03-10", 7, 0), morningShift(), 60, testLoc)
	assert.ErrorIs(t, err, domain.ErrOutsideShiftWindow)
	assert.Contains(t, err.Error(), "08:00")
	assert.Contains(t, err.Error(), "14:00")
	assert.Contains(t, err.Error(), "07:00")
}

func TestCheckInWindowCrossMidnight(t *testing.T) {
	gate := NewAdmissionGate(nil)
	shift := nightShift()

	// 21:00 same evening, one hour early.
	assert.NoError(t, gate.CheckInWindow(at(t, "2025-03-10", 21, 0), shift, 60, testLoc))

	// 01:00 belongs to the window that started the previous evening.
	assert.NoError(t, gate.CheckInWindow(at(t, "2025-03-11", 1, 0), shift, 60, testLoc))

	// 05:00 is within an hour of the 06:00 end.
	err := gate.CheckInWindow(at(t, "2025-03-11", 5, 0), shift, 60, testLoc)
	assert.ErrorIs(t, err, domain.ErrOutsideShiftWindow)

	// Mid-afternoon is nowhere near either window.
	err = gate.CheckInWindow(at(t, "2025-03-10", 14, 0), shift, 60, testLoc)
	assert.ErrorIs(t, err, domain.ErrOutsideShiftWindow)
}

func TestCheckInWindowZeroAllowance(t *testing.T) {
	gate := NewAdmissionGate(nil)
	shift := morningShift()

	err := gate.CheckInWindow(at(t, "2025-03-10", 8, 59), shift, 0, testLoc)
	assert.ErrorIs(t, err, domain.ErrOutsideShiftWindow)

	assert.NoError(t, gate.CheckInWindow(at(t, "2025-03-10", 9, 0), shift, 0, testLoc))
}

func TestCheckInWindowConvertsFromUTC(t *testing.T) {
	gate := NewAdmissionGate(nil)

	// 03:00 UTC is 08:00 in the +05:00 test zone.
	utcInstant := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	assert.NoError(t, gate.CheckInWindow(utcInstant, morningShift(), 60, testLoc))
}
