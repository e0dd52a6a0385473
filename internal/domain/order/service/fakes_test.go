package service

import (
	"context"
	cartmodel "ecommerce_api/internal/domain/cart/model"
	catalogmodel "ecommerce_api/internal/domain/catalog/model"
	couponmodel "ecommerce_api/internal/domain/coupon/model"
	"ecommerce_api/internal/domain/order/model"
	usermodel "ecommerce_api/internal/domain/user/model"
	"ecommerce_api/pkg/database"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// memOrderRepository 内存订单存储
type memOrderRepository struct {
	mu        sync.Mutex
	orders    map[string]model.Order
	createErr error
	updateErr error
	deleted   []string
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{orders: make(map[string]model.Order)}
}

func (r *memOrderRepository) put(o model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.EnsureID()
	r.orders[o.ID] = o
}

func (r *memOrderRepository) Create(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	order.EnsureID()
	r.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memOrderRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if !o.UpdatedAt.Before(since) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrderRepository) Update(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.orders[order.ID]; !ok {
		return database.ErrNotFound
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.orders, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memOrderRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// memCartStore 内存购物车
type memCartStore struct {
	carts     map[string]cartmodel.Cart
	updateErr error
}

func newMemCartStore(carts ...cartmodel.Cart) *memCartStore {
	s := &memCartStore{carts: make(map[string]cartmodel.Cart)}
	for _, c := range carts {
		s.carts[c.UserID] = c
	}
	return s
}

func (s *memCartStore) GetByUser(ctx context.Context, userID string) (*cartmodel.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	c.Items = append([]cartmodel.CartItem{}, c.Items...)
	return &c, nil
}

func (s *memCartStore) Update(ctx context.Context, cart *cartmodel.Cart) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.carts[cart.UserID] = *cart
	return nil
}

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) GetByID(ctx context.Context, id string) (*catalogmodel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogmodel.Product), args.Error(1)
}

type MockCouponReader struct {
	mock.Mock
}

func (m *MockCouponReader) GetByCode(ctx context.Context, code string) (*couponmodel.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*couponmodel.Coupon), args.Error(1)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id string) (*usermodel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usermodel.User), args.Error(1)
}

func product(id, price string) *catalogmodel.Product {
	p := &catalogmodel.Product{Name: id, Price: decimal.RequireFromString(price)}
	p.ID = id
	return p
}

func cartOf(userID string, items ...cartmodel.CartItem) cartmodel.Cart {
	c := cartmodel.Cart{UserID: userID, Items: items}
	c.ID = "cart-" + userID
	return c
}
