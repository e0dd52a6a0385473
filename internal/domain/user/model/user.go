package model

import pkgmodel "ecommerce_api/pkg/model"

// User 用户模型
type User struct {
	pkgmodel.BaseModel `bson:",inline"`
	Email              string `gorm:"uniqueIndex;size:254;not null" bson:"email" json:"email"`
	Password           string `gorm:"not null" bson:"password" json:"-"` // 密码不返回给前端
	IsAdmin            bool   `gorm:"not null;default:false" bson:"is_admin" json:"isAdmin"`
}

// CollectionName mongo 集合名
const CollectionName = "users"
