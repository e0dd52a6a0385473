package middleware

import (
	"ecommerce_api/pkg/cache"
	"ecommerce_api/pkg/response"
	"ecommerce_api/pkg/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID      = "userID"
	ctxIsAdmin     = "isAdmin"
	ctxTokenID     = "tokenID"
	ctxTokenExpiry = "tokenExpiry"
)

// Identity 当前请求的调用者
type Identity struct {
	UserID  string
	IsAdmin bool
	// TokenID 与 TokenExpiry 供登出时吊销当前 access token
	TokenID     string
	TokenExpiry time.Time
}

// AuthMiddleware JWT认证中间件，denylist 为空时不检查吊销
func AuthMiddleware(tokens *utils.TokenManager, denylist cache.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(parts[1], utils.TokenTypeAccess)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		if denylist != nil {
			revoked, err := denylist.Exists(c.Request.Context(), utils.RevokedTokenKey(claims.ID))
			if err == nil && revoked {
				response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		c.Set(ctxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件，需在 AuthMiddleware 之后
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentUser(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}
		if !id.IsAdmin {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文取出调用者身份
func CurrentUser(c *gin.Context) (Identity, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return Identity{}, false
	}
	return Identity{
		UserID:      userID,
		IsAdmin:     c.GetBool(ctxIsAdmin),
		TokenID:     c.GetString(ctxTokenID),
		TokenExpiry: c.GetTime(ctxTokenExpiry),
	}, true
}

// SetIdentity 测试与内部调用时直接注入身份
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxIsAdmin, id.IsAdmin)
	c.Set(ctxTokenID, id.TokenID)
	c.Set(ctxTokenExpiry, id.TokenExpiry)
}
