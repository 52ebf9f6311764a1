package models

import "time"

type UserAddress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Label       string    `gorm:"type:varchar(50)" json:"label"`
	AddressLine string    `gorm:"type:text;not null" json:"address_line"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	PostalCode  string    `gorm:"type:varchar(20)" json:"postal_code"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
