package domain

import (
	"strings"
	"time"
)

// QRPrefix is what scanners expect in front of every token.
const QRPrefix = "QR:"

type QRToken struct {
	ID        uint
	UserID    uint
	User      User
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Payload is the string encoded into the QR image.
func (t QRToken) Payload() string {
	return QRPrefix + t.Token
}

// IsValidAt reports whether the token is still usable at now. The expiry
// instant itself is still valid.
func (t QRToken) IsValidAt(now time.Time) bool {
	return !now.After(t.ExpiresAt)
}

// ParseQRPayload strips the QR prefix and returns the raw token.
func ParseQRPayload(payload string) (string, bool) {
	if !strings.HasPrefix(payload, QRPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(payload, QRPrefix)), true
}
