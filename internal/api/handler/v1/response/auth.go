package response

import "github.com/vietanh2810/canteen-qr-api/internal/domain"

type LoginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    domain.User `json:"user"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
