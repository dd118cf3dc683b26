package model

import (
	"time"
)

// Review is a user's rating of a product, at most one per
// (product, user) pair. Approved defaults to true; reviews are
// auto-approved and the flag is not consulted by any query.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Approved  bool      `gorm:"default:true" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
