package models

import (
	"time"

	"gorm.io/gorm"
)

// PostLike 用户点赞 - 每个用户对同一帖子只能点赞一次
type PostLike struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	PostID uint      `gorm:"not null;index;uniqueIndex:idx_like_post_user" json:"post"`
	Post   Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID uint      `gorm:"not null;index;uniqueIndex:idx_like_post_user" json:"user"`
	User   Account   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Time   time.Time `gorm:"not null" json:"time"`
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.Time.IsZero() {
		l.Time = time.Now()
	}
	return nil
}

// PostHide 用户把帖子从自己的列表中隐藏，帖子本身不受影响
type PostHide struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	PostID uint      `gorm:"not null;index;uniqueIndex:idx_hide_post_user" json:"post"`
	Post   Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID uint      `gorm:"not null;index;uniqueIndex:idx_hide_post_user" json:"user"`
	User   Account   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Time   time.Time `gorm:"not null" json:"time"`
}

func (h *PostHide) BeforeCreate(tx *gorm.DB) error {
	if h.Time.IsZero() {
		h.Time = time.Now()
	}
	return nil
}
