package service

import (
	"context"
	cartmodel "ecommerce_api/internal/domain/cart/model"
	couponmodel "ecommerce_api/internal/domain/coupon/model"
	"ecommerce_api/internal/domain/order/model"
	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/metrics"
	"ecommerce_api/pkg/utils"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	orders   *memOrderRepository
	carts    *memCartStore
	products *MockProductReader
	coupons  *MockCouponReader
	metrics  *metrics.MetricsCollector
	service  OrderService
}

func newFixture(carts ...cartmodel.Cart) *fixture {
	f := &fixture{
		orders:   newMemOrderRepository(),
		carts:    newMemCartStore(carts...),
		products: new(MockProductReader),
		coupons:  new(MockCouponReader),
		metrics:  metrics.NewMetricsCollector(),
	}
	f.service = NewOrderService(Deps{
		Orders:   f.orders,
		Carts:    f.carts,
		Products: f.products,
		Coupons:  f.coupons,
		Metrics:  f.metrics,
		Now:      func() time.Time { return fixedNow },
	})
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots prices and empties cart", func(t *testing.T) {
		f := newFixture(cartOf("u-1",
			cartmodel.CartItem{ProductID: "p-a", Quantity: 2},
			cartmodel.CartItem{ProductID: "p-b", Quantity: 1},
		))
		f.products.On("GetByID", "p-a").Return(product("p-a", "10.00"), nil)
		f.products.On("GetByID", "p-b").Return(product("p-b", "5.50"), nil)

		order, err := f.service.CreateFromCart(ctx, "u-1")
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, order.Status)
		assert.Equal(t, "u-1", order.UserID)
		assert.True(t, dec("25.50").Equal(order.TotalPrice), order.TotalPrice.String())
		require.Len(t, order.Items, 2)
		assert.True(t, dec("10.00").Equal(order.Items[0].Price))
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.True(t, dec("5.50").Equal(order.Items[1].Price))

		cart, err := f.carts.GetByUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, 1, f.orders.count())
	})

	t.Run("empty cart creates nothing", func(t *testing.T) {
		f := newFixture(cartOf("u-1"))
		_, err := f.service.CreateFromCart(ctx, "u-1")
		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Zero(t, f.orders.count())
	})

	t.Run("missing cart is empty", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.CreateFromCart(ctx, "u-1")
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("missing product writes nothing", func(t *testing.T) {
		f := newFixture(cartOf("u-1",
			cartmodel.CartItem{ProductID: "p-a", Quantity: 1},
			cartmodel.CartItem{ProductID: "gone", Quantity: 1},
		))
		f.products.On("GetByID", "p-a").Return(product("p-a", "1.00"), nil)
		f.products.On("GetByID", "gone").Return(nil, database.ErrNotFound)

		_, err := f.service.CreateFromCart(ctx, "u-1")
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Zero(t, f.orders.count())

		cart, _ := f.carts.GetByUser(ctx, "u-1")
		assert.Len(t, cart.Items, 2)
	})

	t.Run("order write failure keeps cart", func(t *testing.T) {
		f := newFixture(cartOf("u-1", cartmodel.CartItem{ProductID: "p-a", Quantity: 1}))
		f.products.On("GetByID", "p-a").Return(product("p-a", "1.00"), nil)
		f.orders.createErr = errors.New("write conflict")

		_, err := f.service.CreateFromCart(ctx, "u-1")
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

		cart, _ := f.carts.GetByUser(ctx, "u-1")
		assert.Len(t, cart.Items, 1)
	})

	t.Run("cart clear failure deletes order", func(t *testing.T) {
		f := newFixture(cartOf("u-1", cartmodel.CartItem{ProductID: "p-a", Quantity: 1}))
		f.products.On("GetByID", "p-a").Return(product("p-a", "1.00"), nil)
		f.carts.updateErr = errors.New("timeout")

		_, err := f.service.CreateFromCart(ctx, "u-1")
		assert.Error(t, err)
		assert.Zero(t, f.orders.count())
		assert.Len(t, f.orders.deleted, 1)
	})
}

func seedOrder(f *fixture, id, userID, total, status string) {
	o := model.Order{UserID: userID, TotalPrice: dec(total), Status: status}
	o.ID = id
	f.orders.put(o)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid status leaves order unchanged", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "10.00", model.StatusPending)

		_, err := f.service.UpdateStatus(ctx, "o-1", "Lost")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Contains(t, err.Error(), "Pending, Shipped, Delivered, Cancelled")

		_, err = f.service.UpdateStatus(ctx, "o-1", "pending")
		assert.ErrorIs(t, err, ErrInvalidStatus)

		o, _ := f.orders.GetByID(ctx, "o-1")
		assert.Equal(t, model.StatusPending, o.Status)
	})

	t.Run("any transition allowed", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "10.00", model.StatusPending)

		for _, to := range []string{model.StatusDelivered, model.StatusPending, model.StatusCancelled, model.StatusShipped, model.StatusShipped} {
			o, err := f.service.UpdateStatus(ctx, "o-1", to)
			require.NoError(t, err)
			assert.Equal(t, to, o.Status)
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.UpdateStatus(ctx, "", model.StatusShipped)
		assert.ErrorIs(t, err, ErrOrderIDRequired)
		_, err = f.service.UpdateStatus(ctx, "o-1", "")
		assert.ErrorIs(t, err, ErrStatusRequired)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.UpdateStatus(ctx, "o-x", model.StatusShipped)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()
	valid := &couponmodel.Coupon{Code: "SAVE20", DiscountPercentage: 20, ExpiryDate: fixedNow.Add(24 * time.Hour), UsageLimit: 1}
	expired := &couponmodel.Coupon{Code: "OLD", DiscountPercentage: 50, ExpiryDate: fixedNow.Add(-time.Minute)}

	t.Run("discount compounds", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "100.00", model.StatusPending)
		f.coupons.On("GetByCode", "SAVE20").Return(valid, nil)

		o, err := f.service.ApplyCoupon(ctx, "SAVE20", "o-1")
		require.NoError(t, err)
		assert.True(t, dec("80.00").Equal(o.TotalPrice), o.TotalPrice.String())

		o, err = f.service.ApplyCoupon(ctx, "SAVE20", "o-1")
		require.NoError(t, err)
		assert.True(t, dec("64.00").Equal(o.TotalPrice), o.TotalPrice.String())

		stored, _ := f.orders.GetByID(ctx, "o-1")
		assert.True(t, dec("64").Equal(stored.TotalPrice))
	})

	t.Run("rounds to cents", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "33.33", model.StatusPending)
		f.coupons.On("GetByCode", "SAVE20").Return(valid, nil)

		o, err := f.service.ApplyCoupon(ctx, "SAVE20", "o-1")
		require.NoError(t, err)
		assert.Equal(t, "26.66", o.TotalPrice.StringFixed(2))
	})

	t.Run("expired coupon leaves total", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "100.00", model.StatusPending)
		f.coupons.On("GetByCode", "OLD").Return(expired, nil)

		_, err := f.service.ApplyCoupon(ctx, "OLD", "o-1")
		assert.ErrorIs(t, err, ErrCouponExpired)

		stored, _ := f.orders.GetByID(ctx, "o-1")
		assert.True(t, dec("100").Equal(stored.TotalPrice))
	})

	t.Run("unknown coupon", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "100.00", model.StatusPending)
		f.coupons.On("GetByCode", "NOPE").Return(nil, database.ErrNotFound)

		_, err := f.service.ApplyCoupon(ctx, "NOPE", "o-1")
		assert.ErrorIs(t, err, ErrInvalidCoupon)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("unknown order checked first", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.ApplyCoupon(ctx, "SAVE20", "o-x")
		assert.ErrorIs(t, err, ErrOrderNotFound)
		f.coupons.AssertNotCalled(t, "GetByCode", "SAVE20")
	})

	t.Run("unknown order wins over empty code", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.ApplyCoupon(ctx, "", "o-x")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("empty code is an invalid coupon", func(t *testing.T) {
		f := newFixture()
		seedOrder(f, "o-1", "u-1", "100.00", model.StatusPending)

		_, err := f.service.ApplyCoupon(ctx, "", "o-1")
		assert.ErrorIs(t, err, ErrInvalidCoupon)
		f.coupons.AssertNotCalled(t, "GetByCode", "")

		stored, _ := f.orders.GetByID(ctx, "o-1")
		assert.True(t, dec("100").Equal(stored.TotalPrice))
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedOrder(f, "o-1", "u-1", "10.00", model.StatusPending)

	_, err := f.service.Get(ctx, Caller{UserID: "u-1"}, "o-1")
	assert.NoError(t, err)

	_, err = f.service.Get(ctx, Caller{UserID: "u-2"}, "o-1")
	assert.ErrorIs(t, err, ErrOrderForbidden)

	_, err = f.service.Get(ctx, Caller{UserID: "admin", IsAdmin: true}, "o-1")
	assert.NoError(t, err)

	_, err = f.service.Get(ctx, Caller{UserID: "u-1"}, "o-x")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for i, id := range []string{"o-1", "o-2", "o-3"} {
		o := model.Order{UserID: "u-1", TotalPrice: dec("1"), Status: model.StatusPending}
		o.ID = id
		o.CreatedAt = fixedNow.Add(time.Duration(i) * time.Minute)
		f.orders.put(o)
	}
	seedOrder(f, "o-9", "u-2", "1", model.StatusPending)

	page, err := f.service.ListByUser(ctx, "u-1", utils.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.Pages)

	orders := page.List.([]model.Order)
	require.Len(t, orders, 2)
	assert.Equal(t, "o-3", orders[0].ID)
}
