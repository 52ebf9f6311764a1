package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
)

// DeliveryService keeps one tracking record per order. Tracking records are
// created after the order transaction commits; the coupling is eventual,
// never part of the order's own transaction.
type DeliveryService struct {
	db *gorm.DB
}

func NewDeliveryService(db *gorm.DB) *DeliveryService {
	return &DeliveryService{db: db}
}

// ExternalUpdate is what a delivery partner webhook pushes to us.
type ExternalUpdate struct {
	Status                string     `json:"status"`
	Location              *string    `json:"location,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	ExternalTrackingID    *string    `json:"external_tracking_id,omitempty"`
}

func newTrackingNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TRK-%d-%s", time.Now().UnixMilli(), suffix)
}

// CreateForOrder opens a tracking record for a freshly created order and
// links it back onto the order row.
func (s *DeliveryService) CreateForOrder(orderID uint) (*models.DeliveryTracking, error) {
	tracking := models.DeliveryTracking{
		OrderID:        orderID,
		TrackingNumber: newTrackingNumber(),
		Status:         models.DeliveryStatusPending,
	}
	tracking.AppendHistory(models.DeliveryStatusEvent{
		Status:    models.DeliveryStatusPending,
		Timestamp: time.Now(),
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tracking).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("delivery_tracking_id", tracking.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (s *DeliveryService) FindByOrderID(orderID uint) (*models.DeliveryTracking, error) {
	var tracking models.DeliveryTracking
	if err := s.db.Where("order_id = ?", orderID).First(&tracking).Error; err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (s *DeliveryService) FindByTrackingNumber(number string) (*models.DeliveryTracking, error) {
	var tracking models.DeliveryTracking
	if err := s.db.Where("tracking_number = ?", number).First(&tracking).Error; err != nil {
		return nil, err
	}
	return &tracking, nil
}

// UpdateStatus records a new delivery status with a history entry.
func (s *DeliveryService) UpdateStatus(orderID uint, status string, location *string, eta *time.Time) error {
	tracking, err := s.FindByOrderID(orderID)
	if err != nil {
		return err
	}

	tracking.Status = status
	tracking.CurrentLocation = location
	if eta != nil {
		tracking.EstimatedDeliveryTime = eta
	}
	tracking.AppendHistory(models.DeliveryStatusEvent{
		Status:    status,
		Timestamp: time.Now(),
		Location:  location,
	})

	return s.db.Save(tracking).Error
}

// ApplyExternalUpdate ingests a delivery partner callback. A delivered
// status from the partner also marks the order itself delivered and its
// payment settled.
func (s *DeliveryService) ApplyExternalUpdate(orderID uint, upd ExternalUpdate) error {
	tracking, err := s.FindByOrderID(orderID)
	if err != nil {
		return err
	}

	if upd.Status != "" {
		tracking.Status = upd.Status
	}
	tracking.CurrentLocation = upd.Location
	if upd.EstimatedDeliveryTime != nil {
		tracking.EstimatedDeliveryTime = upd.EstimatedDeliveryTime
	}
	if upd.ExternalTrackingID != nil {
		tracking.ExternalTrackingID = upd.ExternalTrackingID
	}
	tracking.AppendHistory(models.DeliveryStatusEvent{
		Status:    tracking.Status,
		Timestamp: time.Now(),
		Location:  upd.Location,
		Source:    "external_api",
	})

	if err := s.db.Save(tracking).Error; err != nil {
		return err
	}

	if upd.Status == models.DeliveryStatusDelivered {
		updates := map[string]interface{}{
			"status":         models.OrderStatusDelivered,
			"payment_status": models.PaymentStatusPaid,
		}
		if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return fmt.Errorf("settle delivered order: %w", err)
		}
	}

	return nil
}
