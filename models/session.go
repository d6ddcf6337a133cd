package models

import "time"

// Session is the authenticated caller of a request. It is built from a
// verified token by the auth middleware and passed explicitly to handlers.
type Session struct {
	SubjectID uint      `json:"subject_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) IsStaff() bool {
	return IsStaffRole(s.Role)
}

func (s Session) HasRole(roles ...string) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
