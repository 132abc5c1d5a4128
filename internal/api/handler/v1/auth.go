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
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, identifier, password string) (domain.User, service.TokenPair, error)
	Refresh(ctx context.Context, raw string) (service.TokenPair, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register a new account
// @Description  Only addresses on the allow-list can register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), domain.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotApproved), errors.Is(err, service.ErrUserEmailExists):
			response.RenderErr(ctx, response.ErrBadRequest(err).WithDetails(gin.H{"email": err.Error()}))
			return
		case errors.Is(err, service.ErrUsernameExists):
			response.RenderErr(ctx, response.ErrBadRequest(err).WithDetails(gin.H{"username": err.Error()}))
			return
		case errors.Is(err, service.ErrWeakPassword):
			response.RenderErr(ctx, response.ErrBadRequest(err).WithDetails(gin.H{"password": err.Error()}))
			return
		}

		err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Obtain an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, pair, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    user,
	})
}

// HandleRefresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.RefreshRequest true "request body"
// @Success      200      {object}   response.TokenPairResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/refresh [post]
func (h *AuthHandler) HandleRefresh(ctx *gin.Context) {
	var req request.RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	pair, err := h.svc.Refresh(ctx.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrInvalidRefreshToken))
			return
		}

		err = fmt.Errorf("v1.HandleRefresh -> h.svc.Refresh -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}
