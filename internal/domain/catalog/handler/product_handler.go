package handler

import (
	"ecommerce_api/internal/domain/catalog/service"
	"ecommerce_api/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler 商品处理器
type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(service service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ProductInput 商品输入，price 接受数字或字符串
type ProductInput struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Stock       int             `json:"stock" binding:"min=0"`
	Images      []string        `json:"images" binding:"omitempty,dive,url"`
	CategoryID  string          `json:"categoryId" binding:"required"`
}

func (in ProductInput) toService() service.ProductInput {
	return service.ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Images:      in.Images,
		CategoryID:  in.CategoryID,
	}
}

// ListProducts 商品列表
// @Summary 商品列表（缓存）
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Product}
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
// @Summary 商品详情（缓存）
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
// @Summary 创建商品（管理员）
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body ProductInput true "商品"
// @Success 201 {object} response.Response{data=model.Product}
// @Failure 400 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product, err := h.service.Create(c.Request.Context(), input.toService())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品
// @Summary 更新商品（管理员）
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Param input body ProductInput true "商品"
// @Success 200 {object} response.Response{data=model.Product}
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
// @Summary 删除商品（管理员）
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Product deleted successfully", nil)
}
