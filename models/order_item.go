package models

import "time"

// OrderItem snapshots one food item within an order. Name and prices are
// captured at order time and never follow later catalog changes.
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	Order        Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FoodItemID   uint      `gorm:"not null" json:"food_item_id"`
	FoodItemName string    `gorm:"type:varchar(255);not null" json:"food_item_name"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	UnitPrice    float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice   float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
