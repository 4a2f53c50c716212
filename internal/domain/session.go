package domain

import "time"

// Session is a signed-in principal. One session exists per successful
// sign-in and is destroyed on sign-out; while no session exists the
// catalog and library surfaces are unavailable.
type Session struct {
	// ID is the revocable session identifier ("ses-" prefixed).
	ID string `json:"id"`
	// UID is the identity-provider subject.
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
