package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type AllowedEmailRequest struct {
	Email string `json:"email"`
	Note  string `json:"note"`
}

func (req *AllowedEmailRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, validation.Length(1, 254), is.Email),
		validation.Field(&req.Note, validation.Length(0, 255)),
	)
}
