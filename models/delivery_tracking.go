package models

import (
	"encoding/json"
	"time"
)

const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusAssigned  = "assigned"
	DeliveryStatusPickedUp  = "picked_up"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
)

type DeliveryStatusEvent struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Location  *string   `json:"location,omitempty"`
	Source    string    `json:"source,omitempty"`
}

type DeliveryTracking struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	OrderID               uint       `gorm:"not null;uniqueIndex" json:"order_id"`
	Order                 Order      `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TrackingNumber        string     `gorm:"type:varchar(40);unique;not null" json:"tracking_number"`
	Status                string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CurrentLocation       *string    `gorm:"type:text" json:"current_location,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	DeliveryPartnerID     *uint      `json:"delivery_partner_id,omitempty"`
	ExternalTrackingID    *string    `gorm:"type:varchar(100)" json:"external_tracking_id,omitempty"`
	StatusHistory         string     `gorm:"type:text;not null;default:'[]'" json:"status_history"` // JSON array of DeliveryStatusEvent
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// History decodes the stored status history; a broken payload yields an
// empty slice rather than an error since the history is advisory.
func (d *DeliveryTracking) History() []DeliveryStatusEvent {
	var events []DeliveryStatusEvent
	if err := json.Unmarshal([]byte(d.StatusHistory), &events); err != nil {
		return nil
	}
	return events
}

// AppendHistory records a status event onto the JSON history column.
func (d *DeliveryTracking) AppendHistory(ev DeliveryStatusEvent) {
	events := append(d.History(), ev)
	raw, err := json.Marshal(events)
	if err != nil {
		return
	}
	d.StatusHistory = string(raw)
}
