package response

import (
	"net/http"

	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KindOK 成功响应的分类
const KindOK = "ok"

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Kind    string      `json:"kind"`    // ok / not_found / validation_failed / unauthorized / forbidden / internal
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Kind:    KindOK,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Kind:    KindOK,
		Message: "created",
		Data:    data,
	})
}

// Message 带提示信息的成功响应
func Message(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Kind:    KindOK,
		Message: msg,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Kind:    string(kindForStatus(httpCode)),
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Kind:    string(apperr.KindValidation),
		Message: msg,
		Data:    nil,
	})
}

// FromError 把 service 层错误翻译为响应，未分类的错误记录日志并隐藏细节
func FromError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		logger.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		Error(c, http.StatusInternalServerError, ErrServerInternal, "Internal server error")
		return
	}

	c.JSON(StatusFor(e.Kind), Response{
		Code:    e.Code,
		Kind:    string(e.Kind),
		Message: e.Message,
		Data:    nil,
	})
}

// StatusFor 错误分类对应的 HTTP 状态码
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(httpCode int) apperr.Kind {
	switch httpCode {
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusBadRequest, http.StatusTooManyRequests:
		return apperr.KindValidation
	case http.StatusUnauthorized:
		return apperr.KindUnauthorized
	case http.StatusForbidden:
		return apperr.KindForbidden
	default:
		return apperr.KindInternal
	}
}
