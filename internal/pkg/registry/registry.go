package registry

import (
	"context"
	"ecommerce_api/internal/pkg/config"
	"ecommerce_api/internal/pkg/lock"
	"ecommerce_api/internal/pkg/uploader"
	"ecommerce_api/internal/pkg/worker"
	"ecommerce_api/pkg/cache"
	"ecommerce_api/pkg/metrics"
	"ecommerce_api/pkg/utils"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Job 随服务运行的后台任务，ctx 取消时应返回
type Job func(ctx context.Context) error

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Config *config.Config

	// DB 与 Mongo 按 database.driver 二选一
	DB    *gorm.DB
	Mongo *mongo.Database
	Redis *redis.Client // 未启用 Redis 时为 nil

	Engine *gin.Engine
	Router *gin.RouterGroup // /api

	Logger   *zap.Logger
	Cache    cache.CacheService
	Tokens   *utils.TokenManager
	Locker   lock.Locker
	Metrics  *metrics.MetricsCollector
	Workers  *worker.WorkerPool
	Uploader uploader.Uploader // 未配置 OSS 时为 nil
	Now      func() time.Time

	jobs []Job
}

// AddJob 注册后台任务，由 cmd/server 统一启动与停止
func (c *ModuleContext) AddJob(job Job) {
	c.jobs = append(c.jobs, job)
}

// Jobs 已注册的后台任务
func (c *ModuleContext) Jobs() []Job {
	return c.jobs
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// sortedModules 按优先级排序，同优先级按名称保证顺序稳定
func sortedModules() []Module {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	for _, module := range sortedModules() {
		if err := module.Init(ctx); err != nil {
			return err
		}
		if ctx.Logger != nil {
			ctx.Logger.Info("module initialized", zap.String("module", module.Name()))
		}
	}
	return nil
}
