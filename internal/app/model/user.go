package model

import (
	"math"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// RestoreWindowDays is how long a soft-deleted account stays restorable.
const RestoreWindowDays = 30

// User carries its own soft-delete columns instead of gorm.DeletedAt.
// Deleted rows must stay reachable for the restore flow, so queries opt
// in to them explicitly rather than relying on gorm's default scope.
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Phone        string     `json:"phone"`
	Role         UserRole   `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	IsDeleted    bool       `gorm:"default:false;index" json:"-"`
	DeletedAt    *time.Time `json:"-"`

	// Default checkout values (profile settings)
	DefaultShippingAddress string `gorm:"type:text" json:"default_shipping_address"`
	DefaultCity            string `json:"default_city"`
	DefaultZipCode         string `json:"default_zip_code"`
	DefaultCountry         string `json:"default_country"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Orders    []Order    `gorm:"foreignKey:UserID" json:"-"`
	CartItems []CartItem `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// SoftDelete marks the account deleted and unusable for login.
func (u *User) SoftDelete(now time.Time) {
	u.IsDeleted = true
	u.IsActive = false
	u.DeletedAt = &now
}

// Restore reactivates a soft-deleted account. Calling it on an active
// account is a no-op, which keeps concurrent restore confirmations safe.
func (u *User) Restore() {
	u.IsDeleted = false
	u.DeletedAt = nil
	u.IsActive = true
}

// RestoreDaysLeft reports days remaining in the restore window,
// rounded up so a partially elapsed day still counts. Returns 30 for
// accounts that are not deleted and never goes negative.
func (u *User) RestoreDaysLeft(now time.Time) int {
	if !u.IsDeleted || u.DeletedAt == nil {
		return RestoreWindowDays
	}
	deadline := u.DeletedAt.Add(RestoreWindowDays * 24 * time.Hour)
	left := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if left < 0 {
		return 0
	}
	return left
}

// IsRestorable reports whether the account is deleted and still inside
// the restore window. The deadline itself is inclusive.
func (u *User) IsRestorable(now time.Time) bool {
	if !u.IsDeleted || u.DeletedAt == nil {
		return false
	}
	return !now.After(u.DeletedAt.Add(RestoreWindowDays * 24 * time.Hour))
}
