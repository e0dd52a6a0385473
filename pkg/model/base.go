package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 基础模型，使用 UUID 作为主键；bson 标签供 mongo 存储使用
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:uuid" bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// BeforeCreate 钩子：生成 UUID
func (b *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	b.EnsureID()
	return
}

// EnsureID 没有 ID 时生成
func (b *BaseModel) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
}

// Touch 刷新时间戳，mongo 存储没有 gorm 的自动时间戳
func (b *BaseModel) Touch(now time.Time) {
	b.EnsureID()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
