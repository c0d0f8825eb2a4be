package admin

import (
	"errors"
	"strconv"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// MenuItemRequest 创建/更新菜品请求
type MenuItemRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	SortOrder   int      `json:"sort_order"`
}

func (r MenuItemRequest) toInput() service.MenuItemUpsertInput {
	return service.MenuItemUpsertInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		Images:      r.Images,
		Tags:        r.Tags,
		Status:      r.Status,
		SortOrder:   r.SortOrder,
	}
}

func parseMenuItemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// GetAdminMenuItems 获取菜品列表 (Admin)
func (h *Handler) GetAdminMenuItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	categoryID := c.Query("category_id")
	search := c.Query("search")

	items, total, err := h.MenuService.ListAdmin(categoryID, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, items, pagination)
}

// GetAdminMenuItem 获取菜品详情 (Admin)
func (h *Handler) GetAdminMenuItem(c *gin.Context) {
	id, ok := parseMenuItemID(c)
	if !ok {
		return
	}

	item, err := h.MenuService.GetAdminByID(id)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			respondError(c, response.CodeNotFound, "error.menu_item_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		return
	}

	response.Success(c, item)
}

// CreateMenuItem 创建菜品
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	item, err := h.MenuService.Create(req.toInput())
	if err != nil {
		respondMenuItemWriteError(c, err, "error.menu_item_create_failed")
		return
	}

	response.Success(c, item)
}

// UpdateMenuItem 更新菜品
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseMenuItemID(c)
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	item, err := h.MenuService.Update(id, req.toInput())
	if err != nil {
		respondMenuItemWriteError(c, err, "error.menu_item_update_failed")
		return
	}

	response.Success(c, item)
}

// SetMenuItemStatusRequest 上下架请求
type SetMenuItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetMenuItemStatus 设置菜品供应状态
func (h *Handler) SetMenuItemStatus(c *gin.Context) {
	id, ok := parseMenuItemID(c)
	if !ok {
		return
	}

	var req SetMenuItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	item, err := h.MenuService.SetStatus(id, req.Status)
	if err != nil {
		respondMenuItemWriteError(c, err, "error.menu_item_update_failed")
		return
	}

	response.Success(c, item)
}

// DeleteMenuItem 删除菜品（软删除）
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseMenuItemID(c)
	if !ok {
		return
	}

	if err := h.MenuService.Delete(id); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			respondError(c, response.CodeNotFound, "error.menu_item_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.menu_item_delete_failed", err)
		return
	}

	response.Success(c, nil)
}

func respondMenuItemWriteError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrMenuItemNotFound):
		respondError(c, response.CodeNotFound, "error.menu_item_not_found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "error.category_not_found", nil)
	case errors.Is(err, service.ErrMenuItemSlugTaken):
		respondError(c, response.CodeBadRequest, "error.slug_used", nil)
	case errors.Is(err, service.ErrMenuItemPriceInvalid):
		respondError(c, response.CodeBadRequest, "error.menu_item_price_invalid", nil)
	case errors.Is(err, service.ErrMenuItemInvalid):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
