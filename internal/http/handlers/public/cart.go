package public

import (
	"errors"
	"strconv"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// CartMenuItem 购物车菜品摘要
type CartMenuItem struct {
	ID     uint               `json:"id"`
	Slug   string             `json:"slug"`
	Name   string             `json:"name"`
	Price  models.Money       `json:"price"`
	Images models.StringArray `json:"images"`
	Tags   models.StringArray `json:"tags"`
	Status string             `json:"status"`
}

// CartItemResponse 购物车项响应
type CartItemResponse struct {
	MenuItemID uint         `json:"menu_item_id"`
	Quantity   int          `json:"quantity"`
	Notes      string       `json:"notes"`
	UnitPrice  models.Money `json:"unit_price"`
	LineTotal  models.Money `json:"line_total"`
	MenuItem   CartMenuItem `json:"menu_item"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}

	respItems := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		if item.MenuItem == nil {
			continue
		}
		respItems = append(respItems, CartItemResponse{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal,
			MenuItem: CartMenuItem{
				ID:     item.MenuItem.ID,
				Slug:   item.MenuItem.Slug,
				Name:   item.MenuItem.Name,
				Price:  item.MenuItem.Price,
				Images: item.MenuItem.Images,
				Tags:   item.MenuItem.Tags,
				Status: item.MenuItem.Status,
			},
		})
	}

	response.Success(c, gin.H{"items": respItems})
}

// UpsertCartItem 添加/更新购物车项
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity <= 0 {
		if err := h.CartService.RemoveItem(uid, req.MenuItemID); err != nil && !errors.Is(err, service.ErrCartItemNotFound) {
			respondError(c, response.CodeInternal, "error.cart_update_failed", err)
			return
		}
		response.Success(c, gin.H{"updated": true})
		return
	}
	if err := h.CartService.UpsertItem(service.UpsertCartItemInput{
		UserID:     uid,
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
	}); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
		case errors.Is(err, service.ErrMenuItemNotFound):
			respondError(c, response.CodeBadRequest, "error.menu_item_not_found", nil)
		case errors.Is(err, service.ErrMenuItemUnavailable):
			respondError(c, response.CodeBadRequest, "error.menu_item_unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("menu_item_id")
	menuItemID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || menuItemID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CartService.RemoveItem(uid, uint(menuItemID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			respondError(c, response.CodeBadRequest, "error.cart_item_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
