package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/canteen-qr-api/internal/api/middleware"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

var errNotAuthenticated = errors.New("authentication credentials were not provided")

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetStatuses(ctx context.Context, userID uint) ([]domain.UserItemStatus, error)
}

// getUserFromContext returns the caller, reusing the user loaded by
// RequireAdmin when present.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	if v, ok := ctx.Get(middleware.UserKey); ok {
		if user, ok := v.(domain.User); ok {
			return user, nil
		}
	}

	userID := ctx.GetUint(middleware.UserIDKey)
	if userID == 0 {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(service.ErrUserNotFound)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetUser -> %w", err))
	}

	return user, nil
}
