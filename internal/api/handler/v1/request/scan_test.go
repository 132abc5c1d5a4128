package request

import (
	"encoding/json"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
)

func decodeAction(t *testing.T, body string) ScanActionRequest {
	t.Helper()

	var req ScanActionRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	return req
}

func TestScanActionRequest_MenuRef(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.MenuRef
	}{
		{
			name: "legacy number",
			body: `{"qr":"QR:abc","item":3,"status":"taken"}`,
			want: domain.MenuRefFromID(3),
		},
		{
			name: "legacy numeric string",
			body: `{"qr":"QR:abc","item":"3","status":"taken"}`,
			want: domain.MenuRefFromText("3"),
		},
		{
			name: "legacy name",
			body: `{"qr":"QR:abc","item":"Milk","status":"wait"}`,
			want: domain.MenuRefFromText("Milk"),
		},
		{
			name: "item_id",
			body: `{"qr":"QR:abc","item_id":7,"status":"not_taken"}`,
			want: domain.MenuRefFromID(7),
		},
		{
			name: "item_name",
			body: `{"qr":"QR:abc","item_name":"Soup","status":"taken"}`,
			want: domain.MenuRefFromName("Soup"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeAction(t, tt.body)
			require.NoError(t, req.Validate())
			assert.Equal(t, tt.want, req.MenuRef())
		})
	}
}

func TestScanActionRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing qr", body: `{"item":1,"status":"taken"}`, field: "qr"},
		{name: "bad status", body: `{"qr":"QR:a","item":1,"status":"eaten"}`, field: "status"},
		{name: "no item", body: `{"qr":"QR:a","status":"taken"}`, field: "item"},
		{name: "two items", body: `{"qr":"QR:a","item":1,"item_name":"Soup","status":"taken"}`, field: "item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeAction(t, tt.body)

			err := req.Validate()
			require.Error(t, err)

			var fields validation.Errors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestItemRef_RejectsOtherTypes(t *testing.T) {
	for _, body := range []string{
		`{"item":1.5}`,
		`{"item":-2}`,
		`{"item":true}`,
	} {
		var req ScanActionRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestScanActionRequest_SubmittedItem(t *testing.T) {
	req := decodeAction(t, `{"qr":"QR:a","item":"Milk","status":"taken"}`)

	raw, err := json.Marshal(map[string]any{"item": req.SubmittedItem()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"item":"Milk"}`, string(raw))
}
