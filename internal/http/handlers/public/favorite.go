package public

import (
	"errors"
	"strconv"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
}

// ListFavorites 获取当前用户收藏的菜品
func (h *Handler) ListFavorites(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	favorites, total, err := h.FavoriteService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.favorite_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, favorites, pagination)
}

// AddFavorite 收藏菜品
func (h *Handler) AddFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.FavoriteService.Add(uid, req.MenuItemID); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			respondError(c, response.CodeBadRequest, "error.menu_item_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.favorite_save_failed", err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// RemoveFavorite 取消收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
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
	if err := h.FavoriteService.Remove(uid, uint(menuItemID)); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			respondError(c, response.CodeNotFound, "error.favorite_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.favorite_save_failed", err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}
