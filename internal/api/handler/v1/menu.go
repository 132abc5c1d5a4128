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

type MenuService interface {
	ListMenus(ctx context.Context) ([]domain.Menu, error)
	GetMenu(ctx context.Context, id uint) (domain.Menu, error)
	CreateMenu(ctx context.Context, menu domain.Menu) (domain.Menu, error)
	ReplaceMenu(ctx context.Context, id uint, menu domain.Menu) (domain.Menu, error)
	PatchMenu(ctx context.Context, id uint, patch domain.MenuPatch) (domain.Menu, error)
	DeleteMenu(ctx context.Context, id uint) error
}

type MenuHandler struct {
	svc MenuService
}

func NewMenuHandler(svc MenuService) *MenuHandler {
	return &MenuHandler{
		svc: svc,
	}
}

// HandleListMenus godoc
// @Summary      List menu items, newest first
// @Tags         menu
// @Produce      json
// @Success      200  {array}   domain.Menu
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu/ [get]
func (h *MenuHandler) HandleListMenus(ctx *gin.Context) {
	menus, err := h.svc.ListMenus(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMenus -> h.svc.ListMenus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if menus == nil {
		menus = []domain.Menu{}
	}

	ctx.JSON(http.StatusOK, menus)
}

// HandleGetMenu godoc
// @Summary      Get a menu item
// @Tags         menu
// @Produce      json
// @Param        menuID  path      int  true  "menu id"
// @Success      200  {object}  domain.Menu
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu/{menuID}/ [get]
func (h *MenuHandler) HandleGetMenu(ctx *gin.Context) {
	menuID, ok := menuIDParam(ctx)
	if !ok {
		return
	}

	menu, err := h.svc.GetMenu(ctx.Request.Context(), menuID)
	if err != nil {
		renderMenuErr(ctx, "v1.HandleGetMenu", menuID, err)
		return
	}

	ctx.JSON(http.StatusOK, menu)
}

// HandleCreateMenu godoc
// @Summary      Create a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        request   body      request.MenuRequest true "request body"
// @Success      201  {object}  domain.Menu
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu/ [post]
// @Security BearerAuth
func (h *MenuHandler) HandleCreateMenu(ctx *gin.Context) {
	var req request.MenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	menu, err := h.svc.CreateMenu(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderMenuErr(ctx, "v1.HandleCreateMenu", 0, err)
		return
	}

	ctx.JSON(http.StatusCreated, menu)
}

// HandleReplaceMenu godoc
// @Summary      Replace a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        menuID    path      int  true  "menu id"
// @Param        request   body      request.MenuRequest true "request body"
// @Success      200  {object}  domain.Menu
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu/{menuID}/ [put]
// @Security BearerAuth
func (h *MenuHandler) HandleReplaceMenu(ctx *gin.Context) {
	menuID, ok := menuIDParam(ctx)
	if !ok {
		return
	}

	var req request.MenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	menu, err := h.svc.ReplaceMenu(ctx.Request.Context(), menuID, req.ToDomain())
	if err != nil {
		renderMenuErr(ctx, "v1.HandleReplaceMenu", menuID, err)
		return
	}

	ctx.JSON(http.StatusOK, menu)
}

// HandlePatchMenu godoc
// @Summary      Partially update a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        menuID    path      int  true  "menu id"
// @Param        request   body      request.MenuPatchRequest true "request body"
// @Success      200  {object}  domain.Menu
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu/{menuID}/ [patch]
// @Security BearerAuth
func (h *MenuHandler) HandlePatchMenu(ctx *gin.Context) {
	menuID, ok := menuIDParam(ctx)
	if !ok {
		return
	}

	var req request.MenuPatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	menu, err := h.svc.PatchMenu(ctx.Request.Context(), menuID, req.ToDomain())
	if err != nil {
		renderMenuErr(ctx, "v1.HandlePatchMenu", menuID, err)
		return
	}

	ctx.JSON(http.StatusOK, menu)
}

// HandleDeleteMenu godoc
// @Summary      Delete a menu item and its recorded statuses
// @Tags         menu
// @Param        menuID    path      int  true  "menu id"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /menu/{menuID}/ [delete]
// @Security BearerAuth
func (h *MenuHandler) HandleDeleteMenu(ctx *gin.Context) {
	menuID, ok := menuIDParam(ctx)
	if !ok {
		return
	}

	if err := h.svc.DeleteMenu(ctx.Request.Context(), menuID); err != nil {
		renderMenuErr(ctx, "v1.HandleDeleteMenu", menuID, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func menuIDParam(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("menuID")

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrNotFound("menu", "ID", raw))
		return 0, false
	}

	return uint(id), true
}

func renderMenuErr(ctx *gin.Context, caller string, menuID uint, err error) {
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		response.RenderErr(ctx, response.ErrNotFound("menu", "ID", menuID))
	case errors.Is(err, service.ErrMenuNameExists):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrMenuNameExists).WithDetails(gin.H{"name": service.ErrMenuNameExists.Error()}))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", caller, err)))
	}
}
