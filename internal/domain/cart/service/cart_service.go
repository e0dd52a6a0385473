package service

import (
	"context"
	catalogmodel "ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/internal/domain/cart/model"
	"ecommerce_api/internal/domain/cart/repository"
	"ecommerce_api/internal/pkg/lock"
	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/response"

	"github.com/go-faster/errors"
)

var (
	ErrCartEmpty        = apperr.NotFound(response.ErrCartEmpty, "Cart is empty.")
	ErrCartNotFound     = apperr.NotFound(response.ErrCartNotFound, "Cart not found")
	ErrCartItemNotFound = apperr.NotFound(response.ErrCartItemNotFound, "Item not found in cart")
	ErrProductNotFound  = apperr.NotFound(response.ErrProductNotFound, "Product not found")
	ErrInvalidQuantity  = apperr.Validation(response.ErrInvalidParam, "Quantity must be at least 1")
	ErrProductRequired  = apperr.Validation(response.ErrInvalidParam, "Product ID is required")
)

// ProductReader 购物车只需要按 ID 查商品
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*catalogmodel.Product, error)
}

// CartService 购物车服务
type CartService interface {
	View(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error)
	// Clear 清空购物车，返回 false 表示购物车本来就不存在
	Clear(ctx context.Context, userID string) (bool, error)
}

type cartService struct {
	repo     repository.CartRepository
	products ProductReader
	locker   lock.Locker
}

// NewCartService 创建购物车服务，locker 为空时不加锁
func NewCartService(repo repository.CartRepository, products ProductReader, locker lock.Locker) CartService {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &cartService{repo: repo, products: products, locker: locker}
}

// LockKey 购物车变更锁
func LockKey(userID string) string {
	return "cart:" + userID
}

func (s *cartService) View(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, errors.Wrap(err, "get cart")
	}
	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if productID == "" {
		return nil, ErrProductRequired
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// 商品不存在时购物车保持不变
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "lookup product")
	}

	unlock, err := s.locker.Lock(ctx, LockKey(userID))
	if err != nil {
		return nil, errors.Wrap(err, "lock cart")
	}
	defer unlock()

	cart, err := s.repo.GetByUser(ctx, userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		cart = &model.Cart{UserID: userID, Items: []model.CartItem{}}
		mergeItem(cart, productID, quantity)
		err = s.repo.Create(ctx, cart)
		if !errors.Is(err, database.ErrDuplicate) {
			break
		}
		// 并发的首次加购已建好购物车，重读后走更新
		if cart, err = s.repo.GetByUser(ctx, userID); err != nil {
			return nil, errors.Wrap(err, "reload cart")
		}
		mergeItem(cart, productID, quantity)
		err = s.repo.Update(ctx, cart)
	case err != nil:
		return nil, errors.Wrap(err, "get cart")
	default:
		mergeItem(cart, productID, quantity)
		err = s.repo.Update(ctx, cart)
	}
	if err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return cart, nil
}

// mergeItem 同一商品合并数量，不检查库存
func mergeItem(cart *model.Cart, productID string, quantity int) {
	if i := cart.IndexOf(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
		return
	}
	cart.Items = append(cart.Items, model.CartItem{ProductID: productID, Quantity: quantity})
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	if productID == "" {
		return nil, ErrProductRequired
	}

	unlock, err := s.locker.Lock(ctx, LockKey(userID))
	if err != nil {
		return nil, errors.Wrap(err, "lock cart")
	}
	defer unlock()

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, errors.Wrap(err, "get cart")
	}

	i := cart.IndexOf(productID)
	if i < 0 {
		return nil, ErrCartItemNotFound
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.repo.Update(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, userID string) (bool, error) {
	unlock, err := s.locker.Lock(ctx, LockKey(userID))
	if err != nil {
		return false, errors.Wrap(err, "lock cart")
	}
	defer unlock()

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "get cart")
	}

	cart.Items = []model.CartItem{}
	if err := s.repo.Update(ctx, cart); err != nil {
		return false, errors.Wrap(err, "clear cart")
	}
	return true, nil
}
