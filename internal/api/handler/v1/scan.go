package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/metrics"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

const (
	scanOpResolve = "resolve"
	scanOpAction  = "action"
)

type ScanService interface {
	Resolve(ctx context.Context, payload string) (domain.ScanView, error)
	Apply(ctx context.Context, payload string, ref domain.MenuRef, status domain.ItemStatus) (domain.ScanOutcome, error)
}

type ScanHandler struct {
	svc     ScanService
	metrics *metrics.Metrics
}

func NewScanHandler(svc ScanService, m *metrics.Metrics) *ScanHandler {
	return &ScanHandler{
		svc:     svc,
		metrics: m,
	}
}

// HandleResolve godoc
// @Summary      Resolve a scanned QR payload
// @Description  Returns the token owner and the item statuses recorded so far
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        request   body      request.ScanResolveRequest true "request body"
// @Success      200  {object}  domain.ScanView
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      410  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/scan/resolve/ [post]
// @Security BearerAuth
func (h *ScanHandler) HandleResolve(ctx *gin.Context) {
	var req request.ScanResolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	view, err := h.svc.Resolve(ctx.Request.Context(), req.QR)
	if err != nil {
		h.renderScanErr(ctx, scanOpResolve, req.QR, err, nil)
		return
	}
	h.metrics.IncScan(scanOpResolve, metrics.OutcomeOK)

	if view.Statuses == nil {
		view.Statuses = []domain.UserItemStatus{}
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleAction godoc
// @Summary      Record an item status for the owner of a QR payload
// @Description  The item is given as item_id, item_name, or the legacy item field (id or name)
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        request   body      request.ScanActionRequest true "request body"
// @Success      200  {object}  domain.ScanOutcome
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      410  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/scan/action/ [post]
// @Security BearerAuth
func (h *ScanHandler) HandleAction(ctx *gin.Context) {
	var req request.ScanActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	outcome, err := h.svc.Apply(ctx.Request.Context(), req.QR, req.MenuRef(), domain.ItemStatus(req.Status))
	if err != nil {
		h.renderScanErr(ctx, scanOpAction, req.QR, err, req.SubmittedItem())
		return
	}
	h.metrics.IncScan(scanOpAction, metrics.OutcomeOK)

	ctx.JSON(http.StatusOK, outcome)
}

func (h *ScanHandler) renderScanErr(ctx *gin.Context, op, payload string, err error, item any) {
	switch {
	case errors.Is(err, service.ErrQRBadFormat):
		h.metrics.IncScan(op, metrics.OutcomeBadFormat)
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrQRTokenNotFound):
		h.metrics.IncScan(op, metrics.OutcomeNotFound)
		response.RenderErr(ctx, response.ErrNotFound("QR token", "payload", payload))
	case errors.Is(err, service.ErrQRTokenExpired):
		h.metrics.IncScan(op, metrics.OutcomeExpired)
		response.RenderErr(ctx, response.ErrGone(err))
	case errors.Is(err, service.ErrMenuNotFound):
		h.metrics.IncScan(op, metrics.OutcomeMenuNotFound)
		response.RenderErr(ctx, response.ErrBadRequest(err).WithDetails(gin.H{"item": item}))
	case errors.Is(err, service.ErrInvalidStatus):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		h.metrics.IncScan(op, metrics.OutcomeError)
		err = fmt.Errorf("v1.ScanHandler(%s) -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
