package common

import (
	"context"
	commonHandler "ecommerce_api/internal/pkg/common"
	"ecommerce_api/internal/pkg/registry"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ecommerce_api/docs"
)

// CommonModule 运维接口：健康检查、指标、接口文档
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// 1. 就绪检查
	health := commonHandler.NewHealthHandler(3 * time.Second)
	if ctx.DB != nil {
		health.AddCheck("postgres", func(c context.Context) error {
			sqlDB, err := ctx.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c)
		})
	}
	if ctx.Mongo != nil {
		health.AddCheck("mongo", func(c context.Context) error {
			return ctx.Mongo.Client().Ping(c, nil)
		})
	}
	if ctx.Redis != nil {
		health.AddCheck("redis", func(c context.Context) error {
			return ctx.Redis.Ping(c).Err()
		})
	}

	// 2. 路由注册（不在 /api 下）
	setupRoutes(ctx, health)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext, health *commonHandler.HealthHandler) {
	r := ctx.Engine
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	if ctx.Metrics != nil {
		r.GET("/metrics", gin.WrapH(ctx.Metrics.Handler()))
	}
	if ctx.Config.App.Env != "prod" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
