package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/response"
)

const healthcheckTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Description  Reports whether the API and its database are reachable
// @Tags         healthcheck
// @Produce      json
// @Success      200  {object}  response.HealthcheckResponse
// @Failure      503  {object}  response.HealthcheckResponse
// @Router       / [get]
func (h *HealthHandler) HandleHealthcheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthcheckTimeout)
	defer cancel()

	if err := h.db.PingContext(pingCtx); err != nil {
		response.RenderErr(ctx, &response.Err{
			HTTPStatusCode: http.StatusServiceUnavailable,
			Err:            fmt.Errorf("h.db.PingContext -> %w", err),
			StatusText:     "unavailable",
			Message:        "database unreachable",
		})
		return
	}

	ctx.JSON(http.StatusOK, response.HealthcheckResponse{Status: "ok"})
}
