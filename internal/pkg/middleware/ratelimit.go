package middleware

import (
	"ecommerce_api/pkg/response"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 存储每个IP的限流器
type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter 创建一个新的IP限流器
// r: 每秒允许的请求数 (QPS)
// b: 桶的大小 (Burst)
// idle: 超过该时长未访问的 IP 会被清理
func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		ips:  make(map[string]*visitor),
		r:    r,
		b:    b,
		idle: idle,
		now:  time.Now,
	}
}

// GetLimiter 获取指定IP的限流器
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) > i.idle {
		i.sweep(now)
	}

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep 清理空闲 IP，调用方持有锁
func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) > i.idle {
			delete(i.ips, ip)
		}
	}
	i.lastSweep = now
}

// RateLimitMiddleware 限流中间件
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
