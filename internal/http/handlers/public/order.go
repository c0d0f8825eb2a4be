package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/i18n"
	"github.com/mesa-next/internal/repository"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	OrderType       string `json:"order_type" binding:"required"`
	PromoCode       string `json:"promo_code"`
	TableNumber     string `json:"table_number"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

// PreviewOrder 订单金额预览
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	preview, err := h.OrderService.PreviewOrder(service.CreateOrderInput{
		UserID:          uid,
		OrderType:       req.OrderType,
		PromoCode:       req.PromoCode,
		TableNumber:     req.TableNumber,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondUserOrderWriteError(c, err)
		return
	}

	response.Success(c, preview)
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:          uid,
		OrderType:       req.OrderType,
		PromoCode:       req.PromoCode,
		TableNumber:     req.TableNumber,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondUserOrderWriteError(c, err)
		return
	}

	response.Success(c, order)
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	orderNo := strings.TrimSpace(c.Query("order_no"))

	orders, total, err := h.OrderService.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   status,
		OrderNo:  orderNo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUser(uint(orderID), uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUserOrderNo(orderNo, uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, order)
}

// CancelOrder 用户取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.CancelOrder(uint(orderID), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderNotCancelable):
			respondError(c, response.CodeBadRequest, "error.order_not_cancelable", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	response.Success(c, order)
}

func respondUserOrderWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderTypeInvalid):
		respondError(c, response.CodeBadRequest, "error.order_type_invalid", nil)
	case errors.Is(err, service.ErrTableNumberRequired):
		respondError(c, response.CodeBadRequest, "error.table_number_required", nil)
	case errors.Is(err, service.ErrDeliveryAddressRequired):
		respondError(c, response.CodeBadRequest, "error.delivery_address_required", nil)
	case errors.Is(err, service.ErrCartEmpty):
		respondError(c, response.CodeBadRequest, "error.cart_empty", nil)
	case errors.Is(err, service.ErrMenuItemNotFound):
		respondError(c, response.CodeBadRequest, "error.menu_item_not_found", nil)
	case errors.Is(err, service.ErrMenuItemUnavailable):
		respondError(c, response.CodeBadRequest, "error.menu_item_unavailable", nil)
	case errors.Is(err, service.ErrPromoFieldsMissing):
		respondError(c, response.CodeBadRequest, "error.promo_fields_missing", nil)
	case errors.Is(err, service.ErrPromoCodeNotFound):
		respondError(c, response.CodeBadRequest, "error.promo_code_invalid", nil)
	case errors.Is(err, service.ErrPromoMinOrder):
		locale := i18n.ResolveLocale(c)
		msg := i18n.T(locale, "error.promo_min_order")
		if perr, ok := err.(interface {
			Key() string
			Args() []interface{}
		}); ok {
			msg = i18n.Sprintf(locale, perr.Key(), perr.Args()...)
		}
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
	case errors.Is(err, service.ErrPromoUsageLimit):
		respondError(c, response.CodeBadRequest, "error.promo_usage_limit", nil)
	default:
		respondError(c, response.CodeInternal, "error.order_create_failed", err)
	}
}
