package models

import (
	"time"
)

// Account 登录账号，由外部账号系统维护，这里只保留外键和展示需要的字段
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile 用户公开资料，帖子和买家意向都挂在 Profile 上
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex" json:"account_id"`
	Account   Account   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}
