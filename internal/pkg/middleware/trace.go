package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxRequestID    = "requestID"
	headerRequestID = "X-Request-ID"
)

// TraceMiddleware 添加请求追踪ID
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 尝试从请求头获取，如果没有则生成新的
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ctxRequestID, requestID)
		c.Header(headerRequestID, requestID)

		c.Next()
	}
}
