package model

import (
	pkgmodel "ecommerce_api/pkg/model"

	"gorm.io/datatypes"
)

const CartCollection = "carts"

// CartItem 购物车行，同一商品只保留一行
type CartItem struct {
	ProductID string `bson:"product_id" json:"productId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Cart 每个用户一个购物车，商品行内嵌存储（postgres 为 jsonb）
type Cart struct {
	pkgmodel.BaseModel `bson:",inline"`
	UserID             string                       `gorm:"type:uuid;uniqueIndex;not null" bson:"user_id" json:"userId"`
	Items              datatypes.JSONSlice[CartItem] `gorm:"type:jsonb;not null" bson:"items" json:"items"`
}

// IndexOf 返回商品所在行，没有时返回 -1
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
