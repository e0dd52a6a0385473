package model

import (
	pkgmodel "ecommerce_api/pkg/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	CategoryCollection = "categories"
	ProductCollection  = "products"
)

// Category 商品分类，删除时级联删除其下商品
type Category struct {
	pkgmodel.BaseModel `bson:",inline"`
	Name               string `gorm:"uniqueIndex;size:255;not null" bson:"name" json:"name"`
	Description        string `gorm:"type:text" bson:"description" json:"description"`
}

// Product 商品
type Product struct {
	pkgmodel.BaseModel `bson:",inline"`
	Name               string          `gorm:"uniqueIndex;size:255;not null" bson:"name" json:"name"`
	Description        string          `gorm:"type:text" bson:"description" json:"description"`
	Price              decimal.Decimal `gorm:"type:numeric(12,2);not null" bson:"price" json:"price"`
	Stock              int             `gorm:"not null;default:0" bson:"stock" json:"stock"`
	Images             pq.StringArray  `gorm:"type:text[]" bson:"images" json:"images"`
	CategoryID         string          `gorm:"type:uuid;not null;index" bson:"category_id" json:"categoryId"`
}
