package user

import (
	"context"
	"ecommerce_api/internal/domain/user/handler"
	"ecommerce_api/internal/domain/user/repository"
	"ecommerce_api/internal/domain/user/service"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/internal/pkg/registry"
	"ecommerce_api/pkg/database"
	"time"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，因为其他模块可能依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 索引
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsureIndexes(ictx, ctx.Mongo, repository.MongoIndexes...); err != nil {
			return err
		}
	}

	// 2. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB, ctx.Mongo)
	userService := service.NewUserService(userRepo, ctx.Tokens, ctx.Cache, ctx.Config.App)
	userHandler := handler.NewUserHandler(userService)

	// 3. 路由注册
	setupRoutes(ctx, userHandler)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.UserHandler) {
	// 公开路由
	authGroup := ctx.Router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// 受保护的路由
	authGroup.POST("/logout", middleware.AuthMiddleware(ctx.Tokens, ctx.Cache), h.Logout)
}
