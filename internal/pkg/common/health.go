package common

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CheckFunc 依赖健康检查，返回 nil 表示可用
type CheckFunc func(ctx context.Context) error

// HealthHandler 存活与就绪探针
type HealthHandler struct {
	timeout time.Duration
	checks  map[string]CheckFunc
}

func NewHealthHandler(timeout time.Duration) *HealthHandler {
	return &HealthHandler{timeout: timeout, checks: make(map[string]CheckFunc)}
}

// AddCheck 注册就绪检查（数据库、Redis 等）
func (h *HealthHandler) AddCheck(name string, check CheckFunc) {
	h.checks[name] = check
}

// Health 存活探针，进程能响应即可
// @Summary 存活探针
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready 就绪探针，并发执行所有检查
// @Summary 就绪探针
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(h.checks))
		healthy = true
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()
			status := "ok"
			if err := check(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			results[name] = status
			if status != "ok" {
				healthy = false
			}
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	code, status := http.StatusOK, "ready"
	if !healthy {
		code, status = http.StatusServiceUnavailable, "not_ready"
	}
	c.JSON(code, gin.H{"status": status, "checks": results})
}
