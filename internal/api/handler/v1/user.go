package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/metrics"
	"github.com/vietanh2810/canteen-qr-api/internal/pkg/qrimage"
)

type QRService interface {
	Issue(ctx context.Context, user domain.User) (domain.QRToken, error)
}

type UserHandler struct {
	svc     UserService
	qrSvc   QRService
	metrics *metrics.Metrics
}

func NewUserHandler(svc UserService, qrSvc QRService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{
		svc:     svc,
		qrSvc:   qrSvc,
		metrics: m,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated user's profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /user/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetStatuses godoc
// @Summary      List the authenticated user's item statuses
// @Tags         user
// @Produce      json
// @Success      200  {object}  response.StatusesResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /user/statuses [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetStatuses(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	statuses, err := h.svc.GetStatuses(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStatuses -> h.svc.GetStatuses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if statuses == nil {
		statuses = []domain.UserItemStatus{}
	}

	ctx.JSON(http.StatusOK, response.StatusesResponse{Statuses: statuses})
}

// HandleIssueQR godoc
// @Summary      Issue a fresh QR payload
// @Description  Every call creates a new token; earlier tokens stay valid until they expire
// @Tags         user
// @Produce      json
// @Success      200  {object}  response.QRResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /user/qr/ [get]
// @Router       /user/qr/ [post]
// @Security BearerAuth
func (h *UserHandler) HandleIssueQR(ctx *gin.Context) {
	token, ok := h.issue(ctx, "v1.HandleIssueQR")
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, response.QRResponse{
		Data:      token.Payload(),
		ExpiresAt: token.ExpiresAt,
	})
}

// HandleQRImage godoc
// @Summary      Issue a fresh QR token rendered as PNG
// @Tags         user
// @Produce      png
// @Success      200  {file}    binary
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /user/qr.png [get]
// @Security BearerAuth
func (h *UserHandler) HandleQRImage(ctx *gin.Context) {
	token, ok := h.issue(ctx, "v1.HandleQRImage")
	if !ok {
		return
	}

	png, err := qrimage.PNG(token.Payload(), qrimage.DefaultSize)
	if err != nil {
		err = fmt.Errorf("v1.HandleQRImage -> qrimage.PNG -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", `inline; filename="qr.png"`)
	ctx.Data(http.StatusOK, "image/png", png)
}

func (h *UserHandler) issue(ctx *gin.Context, caller string) (domain.QRToken, bool) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return domain.QRToken{}, false
	}

	token, err := h.qrSvc.Issue(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("%s -> h.qrSvc.Issue -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return domain.QRToken{}, false
	}
	h.metrics.IncQRIssued()

	return token, true
}
