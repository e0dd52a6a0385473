package coupon

import (
	"context"
	"ecommerce_api/internal/domain/coupon/handler"
	"ecommerce_api/internal/domain/coupon/repository"
	"ecommerce_api/internal/domain/coupon/service"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/internal/pkg/registry"
	"ecommerce_api/pkg/database"
	"time"
)

// CouponModule 优惠券模块
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 10
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsureIndexes(ictx, ctx.Mongo, repository.MongoIndexes...); err != nil {
			return err
		}
	}

	// 1. 依赖注入
	cRepo := repository.NewCouponRepository(ctx.DB, ctx.Mongo)
	cService := service.NewCouponService(cRepo)
	cHandler := handler.NewCouponHandler(cService)

	// 2. 路由注册：优惠券管理全部需要管理员
	admin := ctx.Router.Group("/coupons",
		middleware.AuthMiddleware(ctx.Tokens, ctx.Cache),
		middleware.AdminMiddleware(),
	)
	{
		admin.POST("", cHandler.CreateCoupon)
		admin.GET("", cHandler.ListCoupons)
		admin.GET("/:code", cHandler.GetCoupon)
	}
	return nil
}
