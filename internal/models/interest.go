package models

import (
	"time"

	"gorm.io/gorm"
)

// ReceivedInterest 买家对帖子表达的购买意向，帖子作者可见。
// (buyer, item) 的唯一约束由迁移按配置决定是否创建。
type ReceivedInterest struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	BuyerID uint      `gorm:"not null;index" json:"buyer"`
	Buyer   Profile   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ItemID  uint      `gorm:"not null;index" json:"item"`
	Item    Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Time    time.Time `gorm:"not null" json:"time"`
}

func (r *ReceivedInterest) BeforeCreate(tx *gorm.DB) error {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	return nil
}
