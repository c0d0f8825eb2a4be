package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromotionRequest 创建/更新促销请求
type PromotionRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Code              string  `json:"code" binding:"required"`
	Type              string  `json:"type" binding:"required"`
	DiscountValue     float64 `json:"discount_value"`
	MinOrderAmount    float64 `json:"min_order_amount"`
	MaxDiscountAmount float64 `json:"max_discount_amount"`
	BuyQuantity       int     `json:"buy_quantity"`
	GetQuantity       int     `json:"get_quantity"`
	CategoryID        *uint   `json:"category_id"`
	UsageLimit        int     `json:"usage_limit"`
	UsagePerCustomer  *int    `json:"usage_per_customer"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	Status            string  `json:"status"`
}

func (r PromotionRequest) toInput(c *gin.Context) (service.PromotionUpsertInput, bool) {
	startDate, err := parseTimeNullable(r.StartDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PromotionUpsertInput{}, false
	}
	endDate, err := parseTimeNullable(r.EndDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PromotionUpsertInput{}, false
	}
	return service.PromotionUpsertInput{
		Name:              r.Name,
		Description:       r.Description,
		Code:              r.Code,
		Type:              r.Type,
		DiscountValue:     models.NewMoneyFromDecimal(decimal.NewFromFloat(r.DiscountValue)),
		MinOrderAmount:    models.NewMoneyFromDecimal(decimal.NewFromFloat(r.MinOrderAmount)),
		MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(r.MaxDiscountAmount)),
		BuyQuantity:       r.BuyQuantity,
		GetQuantity:       r.GetQuantity,
		CategoryID:        r.CategoryID,
		UsageLimit:        r.UsageLimit,
		UsagePerCustomer:  r.UsagePerCustomer,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            r.Status,
	}, true
}

// CreatePromotion 创建促销
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := req.toInput(c)
	if !ok {
		return
	}

	promotion, err := h.PromotionAdminService.Create(input)
	if err != nil {
		respondPromotionWriteError(c, err, "error.promotion_create_failed")
		return
	}

	response.Success(c, promotion)
}

// UpdatePromotion 更新促销
func (h *Handler) UpdatePromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || promotionID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := req.toInput(c)
	if !ok {
		return
	}

	promotion, err := h.PromotionAdminService.Update(uint(promotionID), input)
	if err != nil {
		respondPromotionWriteError(c, err, "error.promotion_update_failed")
		return
	}

	response.Success(c, promotion)
}

// GetAdminPromotion 获取促销详情
func (h *Handler) GetAdminPromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || promotionID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	promotion, err := h.PromotionAdminService.Get(uint(promotionID))
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.promotion_fetch_failed", err)
		return
	}

	response.Success(c, promotion)
}

// DeletePromotion 删除促销
func (h *Handler) DeletePromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || promotionID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.PromotionAdminService.Delete(uint(promotionID)); err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.promotion_delete_failed", err)
		return
	}
	response.Success(c, gin.H{
		"deleted": true,
	})
}

// GetAdminPromotions 获取促销列表
func (h *Handler) GetAdminPromotions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var id uint
	if rawID := strings.TrimSpace(c.Query("id")); rawID != "" {
		parsed, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || parsed == 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		id = uint(parsed)
	}

	var categoryID uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		categoryID = uint(parsed)
	}

	promotions, total, err := h.PromotionAdminService.List(repository.PromotionListFilter{
		Page:       page,
		PageSize:   pageSize,
		ID:         id,
		Code:       strings.TrimSpace(c.Query("code")),
		Type:       strings.TrimSpace(c.Query("type")),
		Status:     strings.TrimSpace(c.Query("status")),
		CategoryID: categoryID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.promotion_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, promotions, pagination)
}

// GetAdminPromotionUsages 获取促销使用记录
func (h *Handler) GetAdminPromotionUsages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var promotionID uint
	if raw := strings.TrimSpace(c.Param("id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		promotionID = uint(parsed)
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

	usages, total, err := h.PromotionAdminService.ListUsages(repository.PromotionUsageListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		PromotionID: promotionID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.promotion_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, usages, pagination)
}

func respondPromotionWriteError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
	case errors.Is(err, service.ErrPromoCodeTaken):
		respondError(c, response.CodeBadRequest, "error.promo_code_taken", nil)
	case errors.Is(err, service.ErrPromotionInvalid):
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
