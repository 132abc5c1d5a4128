package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

// Err is the JSON body of every error response.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	Err            error  `json:"-"`
	StatusText     string `json:"status"`
	Message        string `json:"error"`
	Details        any    `json:"details,omitempty"`
}

func (e *Err) WithDetails(details any) *Err {
	e.Details = details
	return e
}

// RenderErr aborts the request with e. Server errors are logged with the
// underlying cause, which is never sent to the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(code int, err error) *Err {
	return &Err{
		HTTPStatusCode: code,
		Err:            err,
		StatusText:     http.StatusText(code),
		Message:        err.Error(),
	}
}

// ErrBadRequest reports invalid input. Field validation errors are returned
// as details keyed by field name.
func ErrBadRequest(err error) *Err {
	e := newErr(http.StatusBadRequest, err)

	var fields validation.Errors
	if errors.As(err, &fields) {
		e.Message = "invalid request"
		e.Details = fields
	}

	return e
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

func ErrWrongCredentials(err error) *Err {
	e := newErr(http.StatusUnauthorized, err)
	e.Message = "no active account found with the given credentials"

	return e
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, fmt.Errorf("%s with %s %v not found", resource, field, value))
}

func ErrGone(err error) *Err {
	return newErr(http.StatusGone, err)
}

func ErrInternalServerError(err error) *Err {
	e := newErr(http.StatusInternalServerError, err)
	e.Message = "internal server error"

	return e
}
