package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	cartmodel "ecommerce_api/internal/domain/cart/model"
	catalogmodel "ecommerce_api/internal/domain/catalog/model"
	couponmodel "ecommerce_api/internal/domain/coupon/model"
	ordermodel "ecommerce_api/internal/domain/order/model"
	usermodel "ecommerce_api/internal/domain/user/model"
	"ecommerce_api/internal/pkg/config"
	"ecommerce_api/internal/pkg/lock"
	"ecommerce_api/internal/pkg/middleware"
	"ecommerce_api/internal/pkg/registry"
	"ecommerce_api/internal/pkg/uploader"
	"ecommerce_api/internal/pkg/worker"
	"ecommerce_api/pkg/cache"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/logger"
	"ecommerce_api/pkg/metrics"
	"ecommerce_api/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	// 业务模块通过 init 自动注册
	_ "ecommerce_api/internal/domain/cart"
	_ "ecommerce_api/internal/domain/catalog"
	_ "ecommerce_api/internal/domain/common"
	_ "ecommerce_api/internal/domain/coupon"
	_ "ecommerce_api/internal/domain/order"
	_ "ecommerce_api/internal/domain/user"
)

// @title E-commerce API
// @version 1.0
// @description 用户、商品目录、购物车、订单与优惠券接口
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置与日志
	config.LoadConfig()
	cfg := &config.GlobalConfig

	lg, err := logger.Init(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server exited", zap.Error(err))
	}
	lg.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	mctx := &registry.ModuleContext{
		Config:  cfg,
		Logger:  lg,
		Metrics: metrics.NewMetricsCollector(),
		Tokens: utils.NewTokenManager(
			cfg.JWT.Secret,
			time.Duration(cfg.JWT.Expire)*time.Hour,
			time.Duration(cfg.JWT.RefreshExpire)*time.Hour,
		),
		Now: func() time.Time { return time.Now().UTC() },
	}

	// 2. 存储
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, mdb, err := database.InitMongo(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		mctx.Mongo = mdb
		lg.Info("using mongo store", zap.String("db", cfg.Database.MongoDB))
	default:
		db, err := database.InitDatabase(cfg.Database, lg)
		if err != nil {
			return err
		}
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db,
				&usermodel.User{},
				&catalogmodel.Category{},
				&catalogmodel.Product{},
				&cartmodel.Cart{},
				&ordermodel.Order{},
				&couponmodel.Coupon{},
			); err != nil {
				return errors.Wrap(err, "auto migrate")
			}
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := mctx.Metrics.RegisterDBPool(cfg.Database.DBName, sqlDB); err != nil {
				lg.Warn("register db pool metrics failed", zap.Error(err))
			}
		}
		mctx.DB = db
	}

	// 3. Redis 可选：缓存、令牌吊销、分布式锁
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		mctx.Redis = rdb
		mctx.Cache = cache.NewRedisCache(rdb, "")
	} else {
		lg.Warn("redis disabled, using in-memory cache")
		mctx.Cache = cache.NewMemoryCache()
	}
	mctx.Locker = lock.New(cfg.App.EntityLocks, mctx.Redis)

	// 4. 后台任务池与上传
	mctx.Workers = worker.NewWorkerPool(cfg.Notify.Workers, cfg.Notify.QueueSize, cfg.Notify.MaxRetry, lg)
	mctx.AddJob(mctx.Workers.Run)

	up, err := uploader.NewAliyunOSSUploader(cfg.OSS)
	if err != nil {
		return err
	}
	if up != nil {
		mctx.Uploader = up
	}

	// 5. HTTP
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		cors.Default(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(lg),
		middleware.MetricsMiddleware(mctx.Metrics),
	)
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst, 10*time.Minute)
	mctx.Engine = engine
	mctx.Router = engine.Group("/api", middleware.RateLimitMiddleware(limiter))

	if err := registry.InitModules(mctx); err != nil {
		return errors.Wrap(err, "init modules")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           otelhttp.NewHandler(engine, "ecommerce-api"),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// 6. 运行：HTTP 与后台任务任一失败即整体退出
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		lg.Info("shutting down server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		return server.Shutdown(sctx)
	})
	for _, job := range mctx.Jobs() {
		g.Go(func() error { return job(gctx) })
	}
	return g.Wait()
}
