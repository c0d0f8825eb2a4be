package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/repository"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminReviews 获取评价列表 (Admin)
func (h *Handler) GetAdminReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var menuItemID uint
	if raw := strings.TrimSpace(c.Query("menu_item_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		menuItemID = uint(parsed)
	}

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		userID = uint(parsed)
	}

	minRating, _ := strconv.Atoi(c.Query("min_rating"))

	reviews, total, err := h.ReviewService.ListAdmin(repository.ReviewListFilter{
		Page:       page,
		PageSize:   pageSize,
		MenuItemID: menuItemID,
		UserID:     userID,
		MinRating:  minRating,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.review_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, reviews, pagination)
}

// DeleteAdminReview 删除评价 (Admin)
func (h *Handler) DeleteAdminReview(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.ReviewService.AdminDelete(uint(reviewID)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.review_save_failed", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
