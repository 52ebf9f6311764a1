package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
)

// NotificationService writes per-user notifications. Order flows call it
// after their transaction commits and only log failures; a lost
// notification never fails an order.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Notify(userID uint, ntype, title, message string, data interface{}) error {
	notif := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		notif.Data = string(raw)
	}
	return s.db.Create(&notif).Error
}

// OrderCreated tells the buyer their order went through.
func (s *NotificationService) OrderCreated(order *models.Order) error {
	return s.Notify(order.UserID, "order_created", "Order placed",
		fmt.Sprintf("Your order %s has been placed.", order.OrderNumber),
		map[string]interface{}{"order_id": order.ID})
}

// OrderStatusChanged tells the buyer about a lifecycle change.
func (s *NotificationService) OrderStatusChanged(order *models.Order, status string) error {
	return s.Notify(order.UserID, "order_status", "Order update",
		fmt.Sprintf("Order %s is now %s.", order.OrderNumber, status),
		map[string]interface{}{"order_id": order.ID, "status": status})
}
