package model

import (
	"time"

	pkgmodel "ecommerce_api/pkg/model"
)

const CouponCollection = "coupons"

// Coupon 百分比折扣券；UsageLimit 只记录不扣减
type Coupon struct {
	pkgmodel.BaseModel `bson:",inline"`
	Code               string    `gorm:"uniqueIndex;size:50;not null" bson:"code" json:"code"`
	DiscountPercentage int       `gorm:"not null" bson:"discount_percentage" json:"discountPercentage"`
	ExpiryDate         time.Time `gorm:"not null" bson:"expiry_date" json:"expiryDate"`
	UsageLimit         int       `gorm:"not null;default:1" bson:"usage_limit" json:"usageLimit"`
}

// Expired 过期时间早于 now 即视为过期
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}
