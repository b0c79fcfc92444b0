package user

import "time"

// User is the verified caller identity consumed by the attendance
// endpoints: who they are and which shift they are assigned to.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Shift        *string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasShift reports whether a non-empty shift is assigned.
func (u User) HasShift() bool {
	return u.Shift != nil && *u.Shift != ""
}
