package settings

import "errors"

// Settings domain errors
var (
	ErrSettingsNotFound   = errors.New("attendance settings not found")
	ErrInvalidShiftConfig = errors.New("invalid shift configuration")
)
