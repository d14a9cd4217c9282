package auth

import (
	"time"
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// DeviceInfo represents information sent by the client about itself.
// This gets stored in Session and is used for display and security.
type DeviceInfo struct {
	DeviceType     string `json:"device_type"`     // mobile, tablet, desktop, web
	Platform       string `json:"platform"`        // iOS, Android, Windows, macOS, Linux, Web
	ClientName     string `json:"client_name"`     // ReadTrail Web, ReadTrail Mobile
	ClientVersion  string `json:"client_version"`  // 1.0.0
	DeviceName     string `json:"device_name"`     // User-set label, optional
	BrowserName    string `json:"browser_name"`    // Chrome, Firefox, Safari (web only)
	BrowserVersion string `json:"browser_version"` // 120.0.6099.109 (web only)
}
