package public

import (
	"errors"
	"strconv"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	OrderID    *uint  `json:"order_id"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// UpdateReviewRequest 更新评价请求
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ListMyReviews 获取当前用户的评价
func (h *Handler) ListMyReviews(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.review_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, reviews, pagination)
}

// CreateReview 创建评价
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Create(service.ReviewInput{
		UserID:     uid,
		MenuItemID: req.MenuItemID,
		OrderID:    req.OrderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewRatingInvalid):
			respondError(c, response.CodeBadRequest, "error.review_rating_invalid", nil)
		case errors.Is(err, service.ErrMenuItemNotFound):
			respondError(c, response.CodeBadRequest, "error.menu_item_not_found", nil)
		case errors.Is(err, service.ErrReviewExists):
			respondError(c, response.CodeBadRequest, "error.review_exists", nil)
		default:
			respondError(c, response.CodeInternal, "error.review_save_failed", err)
		}
		return
	}

	response.Success(c, review)
}

// UpdateReview 更新评价
func (h *Handler) UpdateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Update(uid, uint(reviewID), req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewRatingInvalid):
			respondError(c, response.CodeBadRequest, "error.review_rating_invalid", nil)
		case errors.Is(err, service.ErrReviewNotFound):
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.review_save_failed", err)
		}
		return
	}

	response.Success(c, review)
}

// DeleteReview 删除本人评价
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.ReviewService.Delete(uid, uint(reviewID)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.review_save_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
