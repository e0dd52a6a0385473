package catalog

import (
	"context"
	"ecommerce_api/internal/domain/catalog/handler"
	"ecommerce_api/internal/domain/catalog/repository"
	"ecommerce_api/internal/domain/catalog/service"
	"ecommerce_api/internal/pkg/common"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/internal/pkg/registry"
	"ecommerce_api/pkg/database"
	"time"
)

// CatalogModule 分类与商品模块
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 10
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsureIndexes(ictx, ctx.Mongo, repository.MongoIndexes...); err != nil {
			return err
		}
	}

	// 1. 依赖注入
	categoryRepo := repository.NewCategoryRepository(ctx.DB, ctx.Mongo)
	productRepo := repository.NewProductRepository(ctx.DB, ctx.Mongo)

	productService := service.NewCachedProductService(
		service.NewProductService(productRepo, categoryRepo),
		ctx.Cache,
		ctx.Config.App.CacheTTL,
		ctx.Metrics,
		ctx.Logger,
	)
	categoryService := service.NewCategoryService(categoryRepo, productService)

	// 2. 路由注册
	setupRoutes(ctx,
		handler.NewCategoryHandler(categoryService),
		handler.NewProductHandler(productService),
		common.NewUploadHandler(ctx.Uploader),
	)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext, ch *handler.CategoryHandler, ph *handler.ProductHandler, uh *common.UploadHandler) {
	auth := middleware.AuthMiddleware(ctx.Tokens, ctx.Cache)
	admin := middleware.AdminMiddleware()

	categories := ctx.Router.Group("/categories", auth)
	{
		categories.GET("", ch.ListCategories)
		categories.GET("/:id", ch.GetCategory)
		categories.POST("", admin, ch.CreateCategory)
		categories.PUT("/:id", admin, ch.UpdateCategory)
		categories.DELETE("/:id", admin, ch.DeleteCategory)
	}

	products := ctx.Router.Group("/products", auth)
	{
		products.GET("", ph.ListProducts)
		products.GET("/:id", ph.GetProduct)
		products.POST("", admin, ph.CreateProduct)
		products.POST("/images", admin, uh.UploadImages)
		products.PUT("/:id", admin, ph.UpdateProduct)
		products.DELETE("/:id", admin, ph.DeleteProduct)
	}
}
