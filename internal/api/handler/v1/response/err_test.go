package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, e *Err) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RenderErr(ctx, e)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestRenderErr_BadRequestWithFields(t *testing.T) {
	err := validation.Errors{"qr": errors.New("cannot be blank")}

	rec, body := render(t, ErrBadRequest(err))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad Request", body["status"])
	assert.Equal(t, map[string]any{"qr": "cannot be blank"}, body["details"])
}

func TestRenderErr_InternalHidesCause(t *testing.T) {
	rec, body := render(t, ErrInternalServerError(errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRenderErr_WithDetails(t *testing.T) {
	rec, body := render(t, ErrGone(errors.New("QR token expired")).WithDetails(map[string]any{"item": "Milk"}))

	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "QR token expired", body["error"])
	assert.Equal(t, map[string]any{"item": "Milk"}, body["details"])
}
