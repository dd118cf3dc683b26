package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// OrderStatuses lists every status in display order, used for the
// order-history breakdown.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a checkout. After creation only
// Status, Paid and TrackingNumber change, and only through operator
// updates. TotalPrice is computed once at checkout and never again.
type Order struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Status        OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Paid          bool            `gorm:"default:false" json:"paid"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);default:'card'" json:"payment_method"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingZipCode string `json:"shipping_zip_code"`
	ShippingCountry string `json:"shipping_country"`

	Notes          string `gorm:"type:text" json:"notes"`
	TrackingNumber string `json:"tracking_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product price at order time; later price
// changes never touch past orders.
type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Cost is price * quantity for this line.
func (oi *OrderItem) Cost() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
