package handler

import (
	"ecommerce_api/internal/domain/coupon/service"
	"ecommerce_api/pkg/response"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CouponHandler 优惠券处理器（管理员）
type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(service service.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// CreateCouponInput 创建优惠券输入
type CreateCouponInput struct {
	Code               string    `json:"code" binding:"required,max=50"`
	DiscountPercentage int       `json:"discountPercentage" binding:"required,min=1,max=100"`
	ExpiryDate         time.Time `json:"expiryDate" binding:"required"`
	UsageLimit         int       `json:"usageLimit" binding:"omitempty,min=1"`
}

// CreateCoupon 创建优惠券
// @Summary 创建优惠券（管理员）
// @Tags Coupon
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body CreateCouponInput true "优惠券"
// @Success 201 {object} response.Response{data=model.Coupon}
// @Failure 400 {object} response.Response
// @Router /coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.Create(c.Request.Context(), service.CouponInput{
		Code:               input.Code,
		DiscountPercentage: input.DiscountPercentage,
		ExpiryDate:         input.ExpiryDate,
		UsageLimit:         input.UsageLimit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, coupon)
}

// ListCoupons 优惠券列表
// @Summary 优惠券列表（管理员）
// @Tags Coupon
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Coupon}
// @Router /coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, coupons)
}

// GetCoupon 按券码查询
// @Summary 按券码查询（管理员）
// @Tags Coupon
// @Produce json
// @Security BearerAuth
// @Param code path string true "券码"
// @Success 200 {object} response.Response{data=model.Coupon}
// @Failure 404 {object} response.Response
// @Router /coupons/{code} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, coupon)
}
