package models

import "time"

// FoodItem is a sellable unit. QuantityAvailable is the mutable counter the
// order ledger decrements on creation and restores on cancellation; it is
// only ever changed through conditional updates so it cannot go negative.
type FoodItem struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	RestaurantID      uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant        Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	Category          string     `gorm:"type:varchar(100)" json:"category"`
	Images            string     `gorm:"type:text" json:"images"`
	OriginalPrice     float64    `gorm:"type:decimal(10,2);not null" json:"original_price"`
	DiscountedPrice   float64    `gorm:"type:decimal(10,2);not null" json:"discounted_price"`
	QuantityAvailable int        `gorm:"not null;default:0" json:"quantity_available"`
	ExpiryTime        *time.Time `json:"expiry_time,omitempty"`
	PickupTimeWindow  string     `gorm:"type:text" json:"pickup_time_window"`
	Ingredients       string     `gorm:"type:text" json:"ingredients"`
	Allergens         string     `gorm:"type:text" json:"allergens"`
	DietaryInfo       string     `gorm:"type:text" json:"dietary_info"`
	Status            string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
