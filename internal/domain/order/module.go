package order

import (
	"context"
	cartrepo "ecommerce_api/internal/domain/cart/repository"
	catalogrepo "ecommerce_api/internal/domain/catalog/repository"
	couponrepo "ecommerce_api/internal/domain/coupon/repository"
	"ecommerce_api/internal/domain/order/handler"
	"ecommerce_api/internal/domain/order/repository"
	"ecommerce_api/internal/domain/order/service"
	userrepo "ecommerce_api/internal/domain/user/repository"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/internal/pkg/notify"
	"ecommerce_api/internal/pkg/registry"
	"ecommerce_api/pkg/database"
	"time"

	"go.uber.org/zap"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 依赖购物车、商品与优惠券
	return 30
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsureIndexes(ictx, ctx.Mongo, repository.MongoIndexes...); err != nil {
			return err
		}
	}

	// 1. 依赖注入
	orderRepo := repository.NewOrderRepository(ctx.DB, ctx.Mongo)
	orderService := service.NewOrderService(service.Deps{
		Orders:   orderRepo,
		Carts:    cartrepo.NewCartRepository(ctx.DB, ctx.Mongo),
		Products: catalogrepo.NewProductRepository(ctx.DB, ctx.Mongo),
		Coupons:  couponrepo.NewCouponRepository(ctx.DB, ctx.Mongo),
		Locker:   ctx.Locker,
		Metrics:  ctx.Metrics,
		Logger:   ctx.Logger,
		Now:      ctx.Now,
	})
	orderHandler := handler.NewOrderHandler(orderService)

	// 2. 路由注册
	g := ctx.Router.Group("/orders", middleware.AuthMiddleware(ctx.Tokens, ctx.Cache))
	{
		g.POST("", orderHandler.CreateOrder)
		g.GET("", orderHandler.ListOrders)
		g.GET("/:id", orderHandler.GetOrder)
		g.POST("/status", orderHandler.UpdateStatus)
		g.POST("/apply-coupon", orderHandler.ApplyCoupon)
	}

	// 3. 订单状态通知任务
	if ctx.Config.Notify.Enabled {
		notifier := service.NewStatusNotifier(
			orderRepo,
			userrepo.NewUserRepository(ctx.DB, ctx.Mongo),
			notify.New(ctx.Config, ctx.Logger),
			ctx.Workers,
			ctx.Metrics,
			ctx.Logger,
			ctx.Config.Notify.Interval,
		)
		ctx.AddJob(notifier.Run)
		ctx.Logger.Info("order status notifier scheduled", zap.Duration("interval", ctx.Config.Notify.Interval))
	}
	return nil
}
