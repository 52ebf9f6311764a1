package models

import "time"

type Restaurant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OwnerID        uint      `gorm:"not null;index" json:"owner_id"`
	Owner          User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Category       string    `gorm:"type:varchar(100)" json:"category"`
	Address        string    `gorm:"type:text" json:"address"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Phone          string    `gorm:"type:varchar(30)" json:"phone"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`
	Images         string    `gorm:"type:text" json:"images"` // JSON array of URLs
	OperatingHours string    `gorm:"type:text" json:"operating_hours"`
	CommissionRate float64   `gorm:"type:decimal(5,2);not null;default:0.00" json:"commission_rate"`
	Rating         float64   `gorm:"type:decimal(3,2);not null;default:0.00" json:"rating"`
	TotalReviews   int       `gorm:"not null;default:0" json:"total_reviews"`
	Status         string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Verified       bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
