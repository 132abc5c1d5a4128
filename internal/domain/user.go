package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uint      `json:"id"`
	PublicID  uuid.UUID `json:"public_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user may scan QR codes and manage the catalog.
func (u User) IsAdmin() bool {
	return u.IsStaff
}
