package domain

import "time"

// Session is a persisted refresh token grant. Only the hash of the
// refresh token is stored.
type Session struct {
	Record
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	ExpiresAt        time.Time `json:"expires_at"`
	DeviceName       string    `json:"device_name,omitempty"`
	ClientName       string    `json:"client_name,omitempty"`
	LastUsedAt       time.Time `json:"last_used_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
