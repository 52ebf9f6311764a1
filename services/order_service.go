package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
)

// Monetary comparisons tolerate float noise from JSON decoding.
const amountEpsilon = 1e-6

// OrderService owns order records, their line items, and the transactional
// protocol that couples order creation and cancellation to food item
// inventory and coupon usage.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

type OrderItemInput struct {
	FoodItemID   uint    `json:"food_item_id"`
	FoodItemName string  `json:"food_item_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
}

type CreateOrderInput struct {
	UserID         uint
	RestaurantID   uint
	Items          []OrderItemInput
	TotalAmount    float64
	DiscountAmount float64
	CouponID       *uint
	FinalAmount    float64
	PaymentMethod  *string
	Address        *string
	Notes          *string
}

type OrderFilter struct {
	UserID        uint
	RestaurantID  uint
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

// newOrderNumber builds a human-readable unique order number: a millisecond
// timestamp plus a random suffix, distinct from the numeric primary key.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// Create inserts the order header, its line items, the per-item inventory
// decrements and the optional coupon usage increment as one transaction.
// Either every effect is durably visible or none are.
//
// The inventory decrement is conditional (quantity_available >= wanted) and
// resolved by the storage engine, so two concurrent orders cannot both
// deplete the same item past zero: the loser's update matches no row and
// the whole creation rolls back with ErrInsufficientStock.
func (s *OrderService) Create(in CreateOrderInput) (uint, error) {
	if in.UserID == 0 || in.RestaurantID == 0 || len(in.Items) == 0 {
		return 0, fmt.Errorf("%w: user id, restaurant id and items are required", ErrValidation)
	}

	var itemSum float64
	for _, it := range in.Items {
		if it.FoodItemID == 0 || it.Quantity <= 0 {
			return 0, fmt.Errorf("%w: each item needs a food item id and a positive quantity", ErrValidation)
		}
		itemSum += it.TotalPrice
	}
	if math.Abs(itemSum-in.TotalAmount) > amountEpsilon {
		return 0, fmt.Errorf("%w: total amount does not match the sum of item totals", ErrValidation)
	}
	if math.Abs(in.TotalAmount-in.DiscountAmount-in.FinalAmount) > amountEpsilon {
		return 0, fmt.Errorf("%w: final amount must equal total minus discount", ErrValidation)
	}

	order := models.Order{
		OrderNumber:    newOrderNumber(),
		UserID:         in.UserID,
		RestaurantID:   in.RestaurantID,
		TotalAmount:    in.TotalAmount,
		DiscountAmount: in.DiscountAmount,
		CouponID:       in.CouponID,
		FinalAmount:    in.FinalAmount,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		PaymentMethod:  in.PaymentMethod,
		Address:        in.Address,
		Notes:          in.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, it := range in.Items {
			item := models.OrderItem{
				OrderID:      order.ID,
				FoodItemID:   it.FoodItemID,
				FoodItemName: it.FoodItemName,
				Quantity:     it.Quantity,
				UnitPrice:    it.UnitPrice,
				TotalPrice:   it.TotalPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}

			res := tx.Model(&models.FoodItem{}).
				Where("id = ? AND quantity_available >= ?", it.FoodItemID, it.Quantity).
				UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", it.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement quantity: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: food item %d", ErrInsufficientStock, it.FoodItemID)
			}
		}

		if in.CouponID != nil {
			if err := tx.Model(&models.Coupon{}).
				Where("id = ?", *in.CouponID).
				UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
				return fmt.Errorf("increment coupon usage: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return order.ID, nil
}

// FindByID loads one order with its line items and restaurant display name.
func (s *OrderService) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Restaurant").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll lists orders newest first. An empty result is an empty slice,
// not an error.
func (s *OrderService) FindAll(f OrderFilter) ([]models.Order, error) {
	q := s.db.Preload("Items").Preload("Restaurant").Order("created_at DESC")

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit).Offset(f.Offset)

	orders := make([]models.Order, 0)
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus writes the new status. The value must belong to the status
// enumeration, but transitions between statuses are not restricted here;
// callers (including the delivery webhook) may jump stages.
func (s *OrderService) UpdateStatus(id uint, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	res := s.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// UpdatePaymentStatus writes the payment status, independent of the order
// lifecycle status.
func (s *OrderService) UpdatePaymentStatus(id uint, status string) error {
	if !models.ValidPaymentStatus(status) {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}

	res := s.db.Model(&models.Order{}).Where("id = ?", id).Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Cancel marks the order cancelled and restores every line item's inventory
// in one transaction. The ownership check is part of the transactional read
// (id AND user id), not a separate pre-check, so there is no window between
// check and act. Coupon usage is intentionally left as-is.
func (s *OrderService) Cancel(id, requestingUserID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("id = ? AND user_id = ?", id, requestingUserID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}

		if !order.Cancellable() {
			return ErrOrderNotCancellable
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("load order items: %w", err)
		}

		for _, item := range items {
			if err := tx.Model(&models.FoodItem{}).
				Where("id = ?", item.FoodItemID).
				UpdateColumn("quantity_available", gorm.Expr("quantity_available + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("restore quantity: %w", err)
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		return nil
	})
}
