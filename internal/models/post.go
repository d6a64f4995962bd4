package models

import (
	"time"

	"gorm.io/gorm"
)

const DefaultPostType = "Sell"

// Post 出售帖子
type Post struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostType       string    `gorm:"size:150;not null" json:"post_type"` // Sell, Rent, Garage sale...
	PosterID       uint      `gorm:"not null;index" json:"poster_id"`
	Poster         Profile   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"poster"`
	Title          string    `gorm:"size:150;not null" json:"title"`
	Latitude       string    `gorm:"size:160;not null" json:"latitude"`
	Longitude      string    `gorm:"size:150;not null" json:"longitude"`
	Price          int       `gorm:"not null;index;check:chk_posts_price,price >= 0" json:"price"`
	Size           string    `gorm:"size:100" json:"size"`
	ShowToVerified bool      `gorm:"not null" json:"show_to_verified"`
	Description    string    `gorm:"type:text" json:"description"`
	Time           time.Time `gorm:"not null;index" json:"time"`
	FlatNo         string    `gorm:"size:100" json:"flat_no"`
	StreetNo       string    `gorm:"size:100" json:"street_no"`
	Street         string    `gorm:"size:100" json:"street"`
	Neighborhood   string    `gorm:"size:100" json:"neighborhood"`
	City           string    `gorm:"size:100" json:"city"`
	Country        string    `gorm:"size:100" json:"country"`
	PostalCode     string    `gorm:"size:100" json:"postal_code"`
	Condition      string    `gorm:"size:100" json:"condition"` // like new, good, fair
	Age            int       `gorm:"not null" json:"age"`
	AgeUnit        string    `gorm:"size:100" json:"age_unit"` // years, months
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.PostType == "" {
		p.PostType = DefaultPostType
	}
	if p.Time.IsZero() {
		p.Time = time.Now()
	}
	return nil
}

// PostPicture 帖子图片，Image 存的是图片访问地址
type PostPicture struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PostID uint   `gorm:"not null;index" json:"post_id"`
	Post   Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Image  string `gorm:"not null" json:"image"`
}
