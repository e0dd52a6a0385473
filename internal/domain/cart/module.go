package cart

import (
	"context"
	catalogrepo "ecommerce_api/internal/domain/catalog/repository"
	"ecommerce_api/internal/domain/cart/handler"
	"ecommerce_api/internal/domain/cart/repository"
	"ecommerce_api/internal/domain/cart/service"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/internal/pkg/registry"
	"ecommerce_api/pkg/database"
	"time"
)

// CartModule 购物车模块
type CartModule struct{}

func init() {
	registry.Register(&CartModule{})
}

func (m *CartModule) Name() string {
	return "cart"
}

func (m *CartModule) Priority() int {
	// 依赖商品目录
	return 20
}

func (m *CartModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsureIndexes(ictx, ctx.Mongo, repository.MongoIndexes...); err != nil {
			return err
		}
	}

	// 1. 依赖注入（直接读取商品存储，绕过缓存保证看到最新商品）
	cartRepo := repository.NewCartRepository(ctx.DB, ctx.Mongo)
	productRepo := catalogrepo.NewProductRepository(ctx.DB, ctx.Mongo)
	cartService := service.NewCartService(cartRepo, productRepo, ctx.Locker)
	cartHandler := handler.NewCartHandler(cartService)

	// 2. 路由注册
	g := ctx.Router.Group("/cart", middleware.AuthMiddleware(ctx.Tokens, ctx.Cache))
	{
		g.GET("", cartHandler.GetCart)
		g.DELETE("", cartHandler.ClearCart)
		g.POST("/items", cartHandler.AddItem)
		g.DELETE("/items", cartHandler.RemoveItem)
	}
	return nil
}
