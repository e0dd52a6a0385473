package handler

import (
	"ecommerce_api/internal/domain/order/service"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/pkg/response"
	"ecommerce_api/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// UpdateStatusInput 更新订单状态
type UpdateStatusInput struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// ApplyCouponInput 使用优惠券
type ApplyCouponInput struct {
	Code    string `json:"code"`
	OrderID string `json:"orderId" binding:"required"`
}

func caller(c *gin.Context) (service.Caller, bool) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return service.Caller{}, false
	}
	return service.Caller{UserID: id.UserID, IsAdmin: id.IsAdmin}, true
}

// CreateOrder 购物车下单
// @Summary 购物车下单
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response{data=model.Order}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	order, err := h.service.CreateFromCart(c.Request.Context(), who.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders 我的订单
// @Summary 我的订单（分页）
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.ListByUser(c.Request.Context(), who.UserID, page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 订单详情
// @Summary 订单详情（本人或管理员）
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), who, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateStatus 更新订单状态
// @Summary 更新订单状态
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body UpdateStatusInput true "订单与目标状态"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/status [post]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), input.OrderID, input.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Order status updated successfully", gin.H{"status": order.Status})
}

// ApplyCoupon 使用优惠券
// @Summary 订单使用优惠券
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body ApplyCouponInput true "券码与订单"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/apply-coupon [post]
func (h *OrderHandler) ApplyCoupon(c *gin.Context) {
	var input ApplyCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.ApplyCoupon(c.Request.Context(), input.Code, input.OrderID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Coupon applied", gin.H{"newTotal": order.TotalPrice})
}
