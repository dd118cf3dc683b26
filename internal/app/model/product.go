package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Available   bool            `gorm:"not null" json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Category   Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Reviews    []Review    `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// IsInStock reports whether the product can be sold right now. An
// operator may force Available off even while stock remains.
func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.Available
}
