package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
)

var (
	errInvalidItem   = errors.New("must be a menu id or a menu name")
	errItemRequired  = errors.New("one of item, item_id or item_name is required")
	errItemAmbiguous = errors.New("only one of item, item_id or item_name may be set")
)

type ScanResolveRequest struct {
	QR string `json:"qr"`
}

func (req *ScanResolveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QR, validation.Required),
	)
}

// ItemRef is the legacy item field: a JSON number is a menu id, a JSON
// string is tried as an id and then as a name.
type ItemRef struct {
	ID     uint
	Text   string
	isText bool
}

func (r *ItemRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		r.isText = true
		return json.Unmarshal(data, &r.Text)
	}

	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return errInvalidItem
	}
	r.ID = uint(id)

	return nil
}

func (r ItemRef) MarshalJSON() ([]byte, error) {
	if r.isText {
		return json.Marshal(r.Text)
	}
	return json.Marshal(r.ID)
}

type ScanActionRequest struct {
	QR       string   `json:"qr"`
	Item     *ItemRef `json:"item,omitempty" swaggertype:"string"`
	ItemID   *uint    `json:"item_id,omitempty"`
	ItemName *string  `json:"item_name,omitempty"`
	Status   string   `json:"status"`
}

func (req *ScanActionRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.QR, validation.Required),
		validation.Field(&req.Status, validation.Required, validation.In(statusValues()...)),
		validation.Field(&req.ItemName, validation.NilOrNotEmpty),
	)
	if err != nil {
		return err
	}

	set := 0
	for _, present := range []bool{req.Item != nil, req.ItemID != nil, req.ItemName != nil} {
		if present {
			set++
		}
	}
	switch set {
	case 0:
		return validation.Errors{"item": errItemRequired}
	case 1:
		return nil
	default:
		return validation.Errors{"item": errItemAmbiguous}
	}
}

// MenuRef converts the submitted item field into a menu reference. Validate
// must have succeeded.
func (req *ScanActionRequest) MenuRef() domain.MenuRef {
	switch {
	case req.ItemID != nil:
		return domain.MenuRefFromID(*req.ItemID)
	case req.ItemName != nil:
		return domain.MenuRefFromName(*req.ItemName)
	case req.Item.isText:
		return domain.MenuRefFromText(req.Item.Text)
	default:
		return domain.MenuRefFromID(req.Item.ID)
	}
}

// SubmittedItem echoes the item reference back in error details.
func (req *ScanActionRequest) SubmittedItem() any {
	switch {
	case req.ItemID != nil:
		return *req.ItemID
	case req.ItemName != nil:
		return *req.ItemName
	case req.Item != nil:
		return req.Item
	}
	return nil
}

func statusValues() []interface{} {
	values := make([]interface{}, 0, len(domain.ItemStatuses()))
	for _, s := range domain.ItemStatuses() {
		values = append(values, string(s))
	}
	return values
}
