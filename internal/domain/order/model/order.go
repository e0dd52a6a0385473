package model

import (
	"strings"

	pkgmodel "ecommerce_api/pkg/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const OrderCollection = "orders"

// 订单状态，取值区分大小写
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// AllowedStatuses 允许的状态，顺序即提示顺序
var AllowedStatuses = []string{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

// ValidStatus 是否为允许的状态
func ValidStatus(status string) bool {
	for _, s := range AllowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedStatusList 逗号分隔的状态列表
func AllowedStatusList() string {
	return strings.Join(AllowedStatuses, ", ")
}

// OrderItem 下单时的商品快照，Price 为下单时单价
type OrderItem struct {
	ProductID string          `bson:"product_id" json:"productId"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	Price     decimal.Decimal `bson:"price" json:"price" swaggertype:"string"`
}

// Order 订单
type Order struct {
	pkgmodel.BaseModel `bson:",inline"`
	UserID             string                         `gorm:"type:uuid;not null;index" bson:"user_id" json:"userId"`
	Items              datatypes.JSONSlice[OrderItem] `gorm:"type:jsonb;not null" bson:"items" json:"items"`
	TotalPrice         decimal.Decimal                `gorm:"type:numeric(12,2);not null" bson:"total_price" json:"totalPrice" swaggertype:"string"`
	Status             string                         `gorm:"size:20;not null;default:Pending;index" bson:"status" json:"status"`
}
