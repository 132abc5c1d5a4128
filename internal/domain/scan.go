package domain

import "time"

// ScanView is what an admin sees after scanning a user's QR code.
type ScanView struct {
	User        User             `json:"user"`
	Statuses    []UserItemStatus `json:"statuses"`
	QRExpiresAt time.Time        `json:"qr_expires_at"`
}

// ScanOutcome is the result of recording a status through a scan.
type ScanOutcome struct {
	User      User             `json:"user"`
	Updated   StatusChange     `json:"updated"`
	Statuses  []UserItemStatus `json:"statuses"`
	Timestamp time.Time        `json:"timestamp"`
}
