package domain

import "time"

// Link is a single-candidate onboarding invitation. The token is the only
// credential a candidate holds; the service enforces at most one active link
// per email.
type Link struct {
	ID        string
	Token     string
	Email     string
	FirstName string
	LastName  string
	CreatedBy string // admin ID that issued the link
	Expired   bool
	ExpiresAt *time.Time // optional hard deadline; nil means open-ended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the link can still be used.
func (l Link) IsActive(now time.Time) bool {
	if l.Expired {
		return false
	}
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	return true
}
