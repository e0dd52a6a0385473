package middleware

import (
	"context"
	"ecommerce_api/pkg/cache"
	"ecommerce_api/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthRouter(tokens *utils.TokenManager, denylist cache.CacheService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/me", AuthMiddleware(tokens, denylist), func(c *gin.Context) {
		id, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "isAdmin": id.IsAdmin})
	})
	r.GET("/admin", AuthMiddleware(tokens, denylist), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager(testSecret, time.Hour, time.Hour)
	denylist := cache.NewMemoryCache()
	r := newAuthRouter(tokens, denylist)

	t.Run("missing header", func(t *testing.T) {
		w := doGet(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("valid token", func(t *testing.T) {
		pair, err := tokens.GenerateTokenPair("u-1", false)
		require.NoError(t, err)

		w := doGet(r, "/me", pair.Access)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"u-1"`)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		pair, err := tokens.GenerateTokenPair("u-1", false)
		require.NoError(t, err)

		w := doGet(r, "/me", pair.Refresh)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		pair, err := tokens.GenerateTokenPair("u-1", false)
		require.NoError(t, err)
		claims, err := tokens.ParseToken(pair.Access, utils.TokenTypeAccess)
		require.NoError(t, err)
		require.NoError(t, denylist.Set(context.Background(), utils.RevokedTokenKey(claims.ID), true, time.Hour))

		w := doGet(r, "/me", pair.Access)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager(testSecret, time.Hour, time.Hour)
	r := newAuthRouter(tokens, nil)

	user, err := tokens.GenerateTokenPair("u-1", false)
	require.NoError(t, err)
	admin, err := tokens.GenerateTokenPair("u-2", true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", user.Access).Code)
	assert.Equal(t, http.StatusNoContent, doGet(r, "/admin", admin.Access).Code)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewIPRateLimiter(1, 2, time.Minute)
	r := gin.New()
	r.GET("/ping", RateLimitMiddleware(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/ping", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/ping", "").Code)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 1, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("10.0.0.1")
	limiter.GetLimiter("10.0.0.2")
	assert.Len(t, limiter.ips, 2)

	now = now.Add(2 * time.Minute)
	limiter.GetLimiter("10.0.0.3")
	assert.Len(t, limiter.ips, 1)
}
