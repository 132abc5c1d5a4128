package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
)

// MenuRequest is used for creation and full replacement. Available defaults
// to true when omitted.
type MenuRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (req *MenuRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

func (req *MenuRequest) ToDomain() domain.Menu {
	menu := domain.Menu{
		Name:      req.Name,
		Available: true,
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.Available != nil {
		menu.Available = *req.Available
	}

	return menu
}

type MenuPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (req *MenuPatchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

func (req *MenuPatchRequest) ToDomain() domain.MenuPatch {
	return domain.MenuPatch{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	}
}
