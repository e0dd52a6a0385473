package service

import (
	"context"
	"ecommerce_api/internal/domain/coupon/model"
	"ecommerce_api/internal/domain/coupon/repository"
	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/response"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var (
	ErrCouponNotFound    = apperr.NotFound(response.ErrCouponNotFound, "Coupon not found")
	ErrCouponExists      = apperr.Validation(response.ErrCouponExists, "Coupon with this code already exists")
	ErrCouponCode        = apperr.Validation(response.ErrInvalidParam, "Coupon code must be 1 to 50 characters")
	ErrDiscountRange     = apperr.Validation(response.ErrInvalidParam, "Discount percentage must be between 1 and 100")
	ErrExpiryRequired    = apperr.Validation(response.ErrInvalidParam, "Expiry date is required")
	ErrInvalidUsageLimit = apperr.Validation(response.ErrInvalidParam, "Usage limit must be at least 1")
)

const maxCodeLength = 50

// CouponInput 创建优惠券，UsageLimit 为 0 时取默认值 1
type CouponInput struct {
	Code               string
	DiscountPercentage int
	ExpiryDate         time.Time
	UsageLimit         int
}

// CouponService 优惠券服务
type CouponService interface {
	Create(ctx context.Context, in CouponInput) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
}

type couponService struct {
	repo repository.CouponRepository
}

func NewCouponService(repo repository.CouponRepository) CouponService {
	return &couponService{repo: repo}
}

func (s *couponService) Create(ctx context.Context, in CouponInput) (*model.Coupon, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || len(code) > maxCodeLength {
		return nil, ErrCouponCode
	}
	if in.DiscountPercentage < 1 || in.DiscountPercentage > 100 {
		return nil, ErrDiscountRange
	}
	if in.ExpiryDate.IsZero() {
		return nil, ErrExpiryRequired
	}
	if in.UsageLimit == 0 {
		in.UsageLimit = 1
	}
	if in.UsageLimit < 1 {
		return nil, ErrInvalidUsageLimit
	}

	coupon := &model.Coupon{
		Code:               code,
		DiscountPercentage: in.DiscountPercentage,
		ExpiryDate:         in.ExpiryDate.UTC(),
		UsageLimit:         in.UsageLimit,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrCouponExists
		}
		return nil, errors.Wrap(err, "create coupon")
	}
	return coupon, nil
}

func (s *couponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errors.Wrap(err, "get coupon")
	}
	return coupon, nil
}

func (s *couponService) List(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list coupons")
	}
	return coupons, nil
}
