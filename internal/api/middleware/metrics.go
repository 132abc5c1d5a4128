package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/metrics"
)

// Metrics records request counts and latency labelled by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		m.ObserveRequest(ctx.Request.Method, ctx.FullPath(), ctx.Writer.Status(), time.Since(start))
	}
}
