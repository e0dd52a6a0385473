package service

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/cache"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	args := m.Called(in.Name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called()
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func testProduct(id, price string) *model.Product {
	p := &model.Product{Name: "Mug", Price: decimal.RequireFromString(price), CategoryID: "c-1"}
	p.ID = id
	return p
}

func TestCachedProductService(t *testing.T) {
	ctx := context.Background()

	t.Run("get is read through", func(t *testing.T) {
		next := new(MockProductService)
		s := NewCachedProductService(next, cache.NewMemoryCache(), time.Minute, nil, zap.NewNop())
		next.On("Get", "p-1").Return(testProduct("p-1", "10.00"), nil).Once()

		first, err := s.Get(ctx, "p-1")
		require.NoError(t, err)
		second, err := s.Get(ctx, "p-1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.Price.Equal(second.Price))
		next.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		next := new(MockProductService)
		s := NewCachedProductService(next, cache.NewMemoryCache(), time.Minute, nil, zap.NewNop())
		next.On("Get", "p-x").Return(nil, ErrProductNotFound)

		_, err := s.Get(ctx, "p-x")
		assert.ErrorIs(t, err, ErrProductNotFound)
		_, err = s.Get(ctx, "p-x")
		assert.ErrorIs(t, err, ErrProductNotFound)
		next.AssertNumberOfCalls(t, "Get", 2)
	})

	t.Run("update invalidates item and list", func(t *testing.T) {
		next := new(MockProductService)
		c := cache.NewMemoryCache()
		s := NewCachedProductService(next, c, time.Minute, nil, zap.NewNop())

		next.On("Get", "p-1").Return(testProduct("p-1", "10.00"), nil).Once()
		next.On("List").Return([]model.Product{*testProduct("p-1", "10.00")}, nil).Once()
		_, err := s.Get(ctx, "p-1")
		require.NoError(t, err)
		_, err = s.List(ctx)
		require.NoError(t, err)

		next.On("Update", "p-1").Return(testProduct("p-1", "12.00"), nil)
		_, err = s.Update(ctx, "p-1", ProductInput{Name: "Mug"})
		require.NoError(t, err)

		ok, _ := c.Exists(ctx, "product_p-1")
		assert.False(t, ok)
		ok, _ = c.Exists(ctx, ProductListCacheKey)
		assert.False(t, ok)

		next.On("Get", "p-1").Return(testProduct("p-1", "12.00"), nil).Once()
		p, err := s.Get(ctx, "p-1")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(p.Price))
	})

	t.Run("invalidate all products", func(t *testing.T) {
		next := new(MockProductService)
		c := cache.NewMemoryCache()
		s := NewCachedProductService(next, c, time.Minute, nil, zap.NewNop())
		require.NoError(t, c.Set(ctx, "product_a", 1, time.Minute))
		require.NoError(t, c.Set(ctx, ProductListCacheKey, 1, time.Minute))

		require.NoError(t, s.InvalidateProducts(ctx))
		ok, _ := c.Exists(ctx, "product_a")
		assert.False(t, ok)
		ok, _ = c.Exists(ctx, ProductListCacheKey)
		assert.False(t, ok)
	})
}
