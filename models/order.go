package models

import (
	"time"

	"gorm.io/gorm"
)

// Order lifecycle. The happy path runs pending -> confirmed -> preparing ->
// ready -> picked_up -> delivered; cancelled is reachable from pending or
// confirmed only (enforced on cancellation, not on status writes).
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusPickedUp  = "picked_up"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// ValidOrderStatus reports whether s is a member of the order status
// enumeration.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusPickedUp, OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	OrderNumber        string      `gorm:"type:varchar(40);unique;not null" json:"order_number"`
	UserID             uint        `gorm:"not null;index" json:"user_id"`
	User               User        `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	RestaurantID       uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant         Restaurant  `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	RestaurantName     string      `gorm:"-" json:"restaurant_name,omitempty"`
	Items              []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount        float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DiscountAmount     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount_amount"`
	CouponID           *uint       `gorm:"index" json:"coupon_id,omitempty"`
	FinalAmount        float64     `gorm:"type:decimal(10,2);not null" json:"final_amount"`
	Status             string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus      string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod      *string     `gorm:"type:varchar(40)" json:"payment_method,omitempty"`
	Address            *string     `gorm:"type:text" json:"address,omitempty"` // delivery address snapshot, JSON
	Notes              *string     `gorm:"type:text" json:"notes,omitempty"`
	DeliveryTrackingID *uint       `json:"delivery_tracking_id,omitempty"`
	CreatedAt          time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"not null" json:"updated_at"`
}

// Cancellable reports whether the order may still be cancelled.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// AfterFind copies the preloaded restaurant name onto the order for display.
func (o *Order) AfterFind(tx *gorm.DB) error {
	if o.Restaurant.ID != 0 {
		o.RestaurantName = o.Restaurant.Name
	}
	return nil
}
