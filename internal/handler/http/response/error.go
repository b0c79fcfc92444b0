package response

import (
	"errors"
	"net/http"

	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/auth"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/incubase/attendance-backend-go/internal/domain/user"
	"github.com/incubase/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance admission errors
	case errors.Is(err, attendance.ErrNetworkRestricted):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrNoShiftAssigned):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrOutsideShiftWindow):
		BadRequest(w, err.Error(), nil)

	// Attendance lifecycle errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Settings errors
	case errors.Is(err, settings.ErrInvalidShiftConfig):
		BadRequest(w, err.Error(), nil)

	// A shift name referenced by a user with no config behind it is an
	// operator problem, not a caller problem.
	case errors.Is(err, attendance.ErrShiftNotConfigured):
		InternalServerError(w, "Shift configuration is missing, contact an administrator")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
