package handler

import (
	"ecommerce_api/internal/domain/user/service"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/pkg/response"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput 刷新令牌输入
type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// LogoutInput 登出时可附带 refresh token 一并吊销
type LogoutInput struct {
	Refresh string `json:"refresh"`
}

// AccessTokenResponse 刷新结果
type AccessTokenResponse struct {
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register 处理注册请求
// @Summary 用户注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Code:    response.CodeSuccess,
		Kind:    response.KindOK,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login 处理登录请求
// @Summary 登录，返回 access 与 refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=utils.TokenPair}
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	pair, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pair)
}

// Refresh 刷新 access token
// @Summary 刷新 access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RefreshInput true "refresh token"
// @Success 200 {object} response.Response{data=AccessTokenResponse}
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	access, expiresAt, err := h.service.Refresh(c.Request.Context(), input.Refresh)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, AccessTokenResponse{Access: access, ExpiresAt: expiresAt})
}

// Logout 登出
// @Summary 登出并吊销令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body LogoutInput false "可选 refresh token"
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return
	}

	// body 可为空
	var input LogoutInput
	_ = c.ShouldBindJSON(&input)

	if err := h.service.Logout(c.Request.Context(), id.TokenID, id.TokenExpiry, input.Refresh); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Logged out successfully", nil)
}
