package models

import "time"

const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

// Coupon.UsedCount is incremented once per order that redeems the coupon,
// inside the order creation transaction. It is not decremented when an
// order is cancelled.
type Coupon struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Code           string    `gorm:"type:varchar(50);unique;not null" json:"code"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`
	Value          float64   `gorm:"type:decimal(10,2);not null" json:"value"`
	MinOrderAmount float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"min_order_amount"`
	MaxDiscount    *float64  `gorm:"type:decimal(10,2)" json:"max_discount,omitempty"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidUntil     time.Time `json:"valid_until"`
	UsageLimit     *int      `json:"usage_limit,omitempty"`
	UsedCount      int       `gorm:"not null;default:0" json:"used_count"`
	RestaurantID   *uint     `gorm:"index" json:"restaurant_id,omitempty"` // nil = platform-wide
	Status         string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
