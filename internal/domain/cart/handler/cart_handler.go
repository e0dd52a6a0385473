package handler

import (
	"ecommerce_api/internal/domain/cart/service"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CartHandler 购物车处理器
type CartHandler struct {
	service service.CartService
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// AddItemInput 加入购物车
type AddItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// RemoveItemInput 移出购物车
type RemoveItemInput struct {
	ProductID string `json:"productId" binding:"required"`
}

func currentUserID(c *gin.Context) (string, bool) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return "", false
	}
	return id.UserID, true
}

// GetCart 查看购物车
// @Summary 查看购物车
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.Cart}
// @Failure 404 {object} response.Response
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.View(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
// @Summary 清空购物车
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cleared, err := h.service.Clear(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !cleared {
		response.Message(c, "Cart is already empty.", gin.H{"cleared": false})
		return
	}
	response.Message(c, "Cart cleared successfully.", gin.H{"cleared": true})
}

// AddItem 加入购物车
// @Summary 加入购物车（同一商品合并数量）
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body AddItemInput true "商品与数量"
// @Success 200 {object} response.Response{data=model.Cart}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Item added to cart", cart)
}

// RemoveItem 移出购物车
// @Summary 移出购物车
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body RemoveItemInput true "商品"
// @Success 200 {object} response.Response{data=model.Cart}
// @Failure 404 {object} response.Response
// @Router /cart/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input RemoveItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), userID, input.ProductID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Item removed from cart", cart)
}
