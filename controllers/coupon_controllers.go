package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/services"
	"github.com/mealrescue/marketplace-api/utils"
)

type CouponController struct {
	DB      *gorm.DB
	Coupons *services.CouponService
}

func NewCouponController(db *gorm.DB) *CouponController {
	return &CouponController{DB: db, Coupons: services.NewCouponService(db)}
}

// GetAllCoupons -> admin and restaurant owners.
func (cc *CouponController) GetAllCoupons(c *gin.Context) {
	q := cc.DB.Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if v, err := strconv.Atoi(c.Query("restaurant_id")); err == nil {
		q = q.Where("restaurant_id = ?", v)
	}

	coupons := make([]models.Coupon, 0)
	if err := q.Find(&coupons).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of coupons", coupons)
}

// CreateCoupon -> admin (platform-wide) or owner (restaurant-scoped).
func (cc *CouponController) CreateCoupon(c *gin.Context) {
	type request struct {
		Code           string    `json:"code" binding:"required"`
		Type           string    `json:"type" binding:"required"`
		Value          float64   `json:"value" binding:"required"`
		MinOrderAmount float64   `json:"min_order_amount"`
		MaxDiscount    *float64  `json:"max_discount"`
		ValidFrom      time.Time `json:"valid_from" binding:"required"`
		ValidUntil     time.Time `json:"valid_until" binding:"required"`
		UsageLimit     *int      `json:"usage_limit"`
		RestaurantID   *uint     `json:"restaurant_id"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Type != models.CouponTypePercentage && req.Type != models.CouponTypeFixed {
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"coupon type must be percentage or fixed"})
		return
	}

	// Owners can only scope coupons to a restaurant they own.
	if c.GetString("role") == models.RoleRestaurantOwner {
		if req.RestaurantID == nil {
			utils.RespondError(c, http.StatusForbidden, &CustomError{"restaurant owners must scope coupons to their restaurant"})
			return
		}
		var restaurant models.Restaurant
		if err := cc.DB.First(&restaurant, *req.RestaurantID).Error; err != nil ||
			restaurant.OwnerID != c.GetUint("user_id") {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}

	coupon := models.Coupon{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     req.UsageLimit,
		RestaurantID:   req.RestaurantID,
		Status:         models.CouponStatusActive,
	}
	if err := cc.DB.Create(&coupon).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Coupon created", coupon)
}

// ValidateCoupon answers whether a code applies to a prospective order and
// what discount it yields. Clients call this before placing the order.
func (cc *CouponController) ValidateCoupon(c *gin.Context) {
	var req struct {
		Code         string  `json:"code" binding:"required"`
		OrderAmount  float64 `json:"order_amount" binding:"required"`
		RestaurantID *uint   `json:"restaurant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := cc.Coupons.Validate(req.Code, req.OrderAmount, req.RestaurantID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon validation result", result)
}

// UpdateCoupon -> admin only (status, validity window, limits).
func (cc *CouponController) UpdateCoupon(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("coupon_id"))

	var coupon models.Coupon
	if err := cc.DB.First(&coupon, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Status     *string    `json:"status"`
		ValidUntil *time.Time `json:"valid_until"`
		UsageLimit *int       `json:"usage_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Status != nil {
		coupon.Status = *req.Status
	}
	if req.ValidUntil != nil {
		coupon.ValidUntil = *req.ValidUntil
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = req.UsageLimit
	}

	if err := cc.DB.Save(&coupon).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon updated", coupon)
}

// DeleteCoupon -> admin only. Orders that already redeemed the coupon keep
// their recorded discount; only future redemption is removed.
func (cc *CouponController) DeleteCoupon(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("coupon_id"))

	res := cc.DB.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"coupon not found"})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon deleted", gin.H{"coupon_id": id})
}
