package service

import (
	"context"
	cartmodel "ecommerce_api/internal/domain/cart/model"
	cartservice "ecommerce_api/internal/domain/cart/service"
	catalogmodel "ecommerce_api/internal/domain/catalog/model"
	couponmodel "ecommerce_api/internal/domain/coupon/model"
	"ecommerce_api/internal/domain/order/model"
	"ecommerce_api/internal/domain/order/repository"
	"ecommerce_api/internal/pkg/lock"
	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/metrics"
	"ecommerce_api/pkg/response"
	"ecommerce_api/pkg/utils"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrCartEmpty       = apperr.Validation(response.ErrCartEmpty, "Cart is empty")
	ErrProductNotFound = apperr.NotFound(response.ErrProductNotFound, "Product not found")
	ErrOrderNotFound   = apperr.NotFound(response.ErrOrderNotFound, "Order not found")
	ErrOrderForbidden  = apperr.Forbidden(response.ErrNoPermission, "You do not have permission to access this order")
	ErrOrderIDRequired = apperr.Validation(response.ErrInvalidParam, "Order ID is required")
	ErrStatusRequired  = apperr.Validation(response.ErrInvalidParam, "Status is required")
	ErrInvalidStatus   = apperr.Validation(response.ErrInvalidStatus, "Invalid status. Allowed statuses: "+model.AllowedStatusList())
	ErrInvalidCoupon   = apperr.Validation(response.ErrCouponNotFound, "Invalid coupon code")
	ErrCouponExpired   = apperr.Validation(response.ErrCouponExpired, "Coupon has expired")
	hundred            = decimal.NewFromInt(100)
)

// CartStore 下单时读取并清空购物车
type CartStore interface {
	GetByUser(ctx context.Context, userID string) (*cartmodel.Cart, error)
	Update(ctx context.Context, cart *cartmodel.Cart) error
}

// ProductReader 读取商品当前价格
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*catalogmodel.Product, error)
}

// CouponReader 按券码查询优惠券
type CouponReader interface {
	GetByCode(ctx context.Context, code string) (*couponmodel.Coupon, error)
}

// Caller 调用者身份
type Caller struct {
	UserID  string
	IsAdmin bool
}

// OrderService 订单服务
type OrderService interface {
	CreateFromCart(ctx context.Context, userID string) (*model.Order, error)
	Get(ctx context.Context, caller Caller, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, page utils.Pagination) (*utils.PageResult, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error)
	ApplyCoupon(ctx context.Context, code, orderID string) (*model.Order, error)
}

// Deps 订单服务依赖
type Deps struct {
	Orders   repository.OrderRepository
	Carts    CartStore
	Products ProductReader
	Coupons  CouponReader
	Locker   lock.Locker               // 为空时不加锁
	Metrics  *metrics.MetricsCollector // 可为空
	Logger   *zap.Logger
	Now      func() time.Time // 为空时使用 UTC 当前时间
}

type orderService struct {
	orders   repository.OrderRepository
	carts    CartStore
	products ProductReader
	coupons  CouponReader
	locker   lock.Locker
	metrics  *metrics.MetricsCollector
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(d Deps) OrderService {
	s := &orderService{
		orders:   d.Orders,
		carts:    d.Carts,
		products: d.Products,
		coupons:  d.Coupons,
		locker:   d.Locker,
		metrics:  d.Metrics,
		log:      d.Logger,
		now:      d.Now,
	}
	if s.locker == nil {
		s.locker = lock.Noop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// LockKey 订单变更锁
func LockKey(orderID string) string {
	return "order:" + orderID
}

// CreateFromCart 按购物车下单：快照单价、计算总价、清空购物车
func (s *orderService) CreateFromCart(ctx context.Context, userID string) (*model.Order, error) {
	unlock, err := s.locker.Lock(ctx, cartservice.LockKey(userID))
	if err != nil {
		return nil, errors.Wrap(err, "lock cart")
	}
	defer unlock()

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, errors.Wrap(err, "get cart")
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// 1. 价格快照，任一商品缺失则不写入任何数据
	items := make([]model.OrderItem, 0, len(cart.Items))
	total := decimal.Zero
	for _, line := range cart.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, errors.Wrap(err, "lookup product")
		}
		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	// 2. 写入订单
	order := &model.Order{
		UserID:     userID,
		Items:      items,
		TotalPrice: total.Round(2),
		Status:     model.StatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// 3. 清空购物车，失败时删除刚写入的订单
	cart.Items = []cartmodel.CartItem{}
	if err := s.carts.Update(ctx, cart); err != nil {
		if derr := s.orders.Delete(ctx, order.ID); derr != nil {
			s.log.Error("order compensation failed",
				zap.String("order_id", order.ID),
				zap.String("user_id", userID),
				zap.Error(derr),
			)
		}
		return nil, errors.Wrap(err, "clear cart")
	}

	s.metrics.IncOrdersCreated()
	return order, nil
}

func (s *orderService) Get(ctx context.Context, caller Caller, id string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "get order")
	}
	if order.UserID != caller.UserID && !caller.IsAdmin {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID string, page utils.Pagination) (*utils.PageResult, error) {
	offset, limit := page.GetPageOffset()
	orders, total, err := s.orders.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return utils.NewPageResult(orders, total, page), nil
}

// UpdateStatus 覆盖订单状态，任意状态之间都可以转换
func (s *orderService) UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	if status == "" {
		return nil, ErrStatusRequired
	}
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	unlock, err := s.locker.Lock(ctx, LockKey(orderID))
	if err != nil {
		return nil, errors.Wrap(err, "lock order")
	}
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ApplyCoupon 按百分比折扣总价，重复使用会叠加
func (s *orderService) ApplyCoupon(ctx context.Context, code, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}

	unlock, err := s.locker.Lock(ctx, LockKey(orderID))
	if err != nil {
		return nil, errors.Wrap(err, "lock order")
	}
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 先确认订单存在，空券码按无效券处理
	if code == "" {
		return nil, ErrInvalidCoupon
	}
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "get coupon")
	}
	if coupon.Expired(s.now()) {
		return nil, ErrCouponExpired
	}

	discount := order.TotalPrice.Mul(decimal.NewFromInt(int64(coupon.DiscountPercentage))).Div(hundred)
	order.TotalPrice = order.TotalPrice.Sub(discount).Round(2)
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.IncCouponsApplied()
	return order, nil
}

func (s *orderService) load(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "get order")
	}
	return order, nil
}

func (s *orderService) save(ctx context.Context, order *model.Order) error {
	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrOrderNotFound
		}
		return errors.Wrap(err, "update order")
	}
	return nil
}
