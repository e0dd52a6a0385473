package handler

import (
	"ecommerce_api/internal/domain/catalog/service"
	"ecommerce_api/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 分类处理器
type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CategoryInput 分类输入
type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// ListCategories 分类列表
// @Summary 分类列表
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Category}
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetCategory 分类详情
// @Summary 分类详情
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Success 200 {object} response.Response{data=model.Category}
// @Failure 404 {object} response.Response
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, category)
}

// CreateCategory 创建分类
// @Summary 创建分类（管理员）
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body CategoryInput true "分类"
// @Success 201 {object} response.Response{data=model.Category}
// @Failure 400 {object} response.Response
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	category, err := h.service.Create(c.Request.Context(), service.CategoryInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory 更新分类
// @Summary 更新分类（管理员）
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Param input body CategoryInput true "分类"
// @Success 200 {object} response.Response{data=model.Category}
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	category, err := h.service.Update(c.Request.Context(), c.Param("id"), service.CategoryInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类及其商品
// @Summary 删除分类（管理员，级联删除商品）
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Success 200 {object} response.Response
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Category deleted successfully", nil)
}
