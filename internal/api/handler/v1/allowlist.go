package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

type AllowlistService interface {
	ListEntries(ctx context.Context) ([]domain.AllowedEmail, error)
	AddEntry(ctx context.Context, entry domain.AllowedEmail) (domain.AllowedEmail, error)
	RemoveEntry(ctx context.Context, id uint) error
}

type AllowlistHandler struct {
	svc AllowlistService
}

func NewAllowlistHandler(svc AllowlistService) *AllowlistHandler {
	return &AllowlistHandler{
		svc: svc,
	}
}

// HandleListAllowedEmails godoc
// @Summary      List the addresses allowed to register
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.AllowedEmail
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/allowed-emails/ [get]
// @Security BearerAuth
func (h *AllowlistHandler) HandleListAllowedEmails(ctx *gin.Context) {
	entries, err := h.svc.ListEntries(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllowedEmails -> h.svc.ListEntries -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if entries == nil {
		entries = []domain.AllowedEmail{}
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleAddAllowedEmail godoc
// @Summary      Allow an address to register
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.AllowedEmailRequest true "request body"
// @Success      201  {object}  domain.AllowedEmail
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/allowed-emails/ [post]
// @Security BearerAuth
func (h *AllowlistHandler) HandleAddAllowedEmail(ctx *gin.Context) {
	var req request.AllowedEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, err := h.svc.AddEntry(ctx.Request.Context(), domain.AllowedEmail{
		Email: req.Email,
		Note:  req.Note,
	})
	if err != nil {
		if errors.Is(err, service.ErrAllowedEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrAllowedEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleAddAllowedEmail -> h.svc.AddEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, entry)
}

// HandleRemoveAllowedEmail godoc
// @Summary      Remove an address from the allow-list
// @Tags         admin
// @Param        entryID   path      int  true  "allow-list entry id"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/allowed-emails/{entryID}/ [delete]
// @Security BearerAuth
func (h *AllowlistHandler) HandleRemoveAllowedEmail(ctx *gin.Context) {
	raw := ctx.Param("entryID")
	entryID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound("allowed email", "ID", raw))
		return
	}

	if err := h.svc.RemoveEntry(ctx.Request.Context(), uint(entryID)); err != nil {
		if errors.Is(err, service.ErrAllowedEmailNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("allowed email", "ID", entryID))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveAllowedEmail -> h.svc.RemoveEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
