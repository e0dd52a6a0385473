package service

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/cache"
	"ecommerce_api/pkg/metrics"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// 缓存键常量
const (
	ProductListCacheKey   = "product_list"
	ProductCacheKeyPrefix = "product_"
	DefaultProductTTL     = 5 * time.Minute
)

// CachedProductService 带读缓存的商品服务，写操作后失效
type CachedProductService struct {
	next    ProductService
	cache   cache.CacheService
	ttl     time.Duration
	metrics *metrics.MetricsCollector
	log     *zap.Logger
}

// NewCachedProductService 创建带缓存的商品服务
func NewCachedProductService(next ProductService, c cache.CacheService, ttl time.Duration, m *metrics.MetricsCollector, log *zap.Logger) *CachedProductService {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &CachedProductService{next: next, cache: c, ttl: ttl, metrics: m, log: log}
}

func productCacheKey(id string) string {
	return ProductCacheKeyPrefix + id
}

// InvalidateProducts 清除所有商品缓存
func (s *CachedProductService) InvalidateProducts(ctx context.Context) error {
	if err := s.cache.InvalidatePattern(ctx, ProductCacheKeyPrefix+"*"); err != nil {
		return errors.Wrap(err, "invalidate product cache")
	}
	return nil
}

// invalidate 单个商品和列表缓存，失败只记录日志
func (s *CachedProductService) invalidate(ctx context.Context, id string) {
	keys := []string{ProductListCacheKey}
	if id != "" {
		keys = append(keys, productCacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("product cache invalidation failed", zap.String("product_id", id), zap.Error(err))
	}
}

func (s *CachedProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	key := productCacheKey(id)

	var cached model.Product
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		s.metrics.RecordCacheOperation("product", true)
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.metrics.RecordCacheOperation("product", false)

	product, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, product, s.ttl); err != nil {
		s.log.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
	return product, nil
}

func (s *CachedProductService) List(ctx context.Context) ([]model.Product, error) {
	var cached []model.Product
	err := s.cache.Get(ctx, ProductListCacheKey, &cached)
	if err == nil {
		s.metrics.RecordCacheOperation("product_list", true)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("product list cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheOperation("product_list", false)

	products, err := s.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, ProductListCacheKey, products, s.ttl); err != nil {
		s.log.Warn("product list cache write failed", zap.Error(err))
	}
	return products, nil
}

func (s *CachedProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	product, err := s.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "")
	return product, nil
}

func (s *CachedProductService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	product, err := s.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

func (s *CachedProductService) Delete(ctx context.Context, id string) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}
