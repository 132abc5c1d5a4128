package response

import (
	"time"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
)

type StatusesResponse struct {
	Statuses []domain.UserItemStatus `json:"statuses"`
}

type QRResponse struct {
	Data      string    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

type HealthcheckResponse struct {
	Status string `json:"status"`
}
