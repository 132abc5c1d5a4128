package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(1, 150), validation.Match(usernamePattern)),
		validation.Field(&req.Email, validation.Required, validation.Length(1, 254), is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.FirstName, validation.Length(0, 150)),
		validation.Field(&req.LastName, validation.Length(0, 150)),
	)
}

// LoginRequest takes the username or the email address in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (req *RefreshRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Refresh, validation.Required),
	)
}
