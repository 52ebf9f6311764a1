package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
)

// CouponService validates coupon codes against an order amount. Usage
// accounting happens inside the order creation transaction, not here.
type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// CouponValidation is the answer to "can this code be applied to this
// order?". Invalid codes are an answer, not an error.
type CouponValidation struct {
	Valid          bool           `json:"valid"`
	Message        string         `json:"message,omitempty"`
	Coupon         *models.Coupon `json:"coupon,omitempty"`
	DiscountAmount float64        `json:"discount_amount"`
}

// Validate checks status, validity window, usage limit, minimum order
// amount and restaurant scope, and computes the discount the coupon yields
// for the given order amount.
func (s *CouponService) Validate(code string, orderAmount float64, restaurantID *uint) (*CouponValidation, error) {
	var coupon models.Coupon
	err := s.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CouponValidation{Valid: false, Message: "coupon code not found"}, nil
	}
	if err != nil {
		return nil, err
	}

	if coupon.Status != models.CouponStatusActive {
		return &CouponValidation{Valid: false, Message: "coupon is not active"}, nil
	}

	now := time.Now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return &CouponValidation{Valid: false, Message: "coupon is not valid at this time"}, nil
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return &CouponValidation{Valid: false, Message: "coupon usage limit reached"}, nil
	}

	if orderAmount < coupon.MinOrderAmount {
		return &CouponValidation{Valid: false, Message: "order amount below coupon minimum"}, nil
	}

	if coupon.RestaurantID != nil && (restaurantID == nil || *coupon.RestaurantID != *restaurantID) {
		return &CouponValidation{Valid: false, Message: "coupon is not valid for this restaurant"}, nil
	}

	discount := coupon.Value
	if coupon.Type == models.CouponTypePercentage {
		discount = orderAmount * coupon.Value / 100
		if coupon.MaxDiscount != nil {
			discount = math.Min(discount, *coupon.MaxDiscount)
		}
	}
	discount = math.Min(discount, orderAmount)

	return &CouponValidation{
		Valid:          true,
		Coupon:         &coupon,
		DiscountAmount: discount,
	}, nil
}
