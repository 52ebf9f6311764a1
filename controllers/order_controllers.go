package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/services"
	"github.com/mealrescue/marketplace-api/utils"
)

type OrderController struct {
	DB            *gorm.DB
	Orders        *services.OrderService
	Delivery      *services.DeliveryService
	Notifications *services.NotificationService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:            db,
		Orders:        services.NewOrderService(db),
		Delivery:      services.NewDeliveryService(db),
		Notifications: services.NewNotificationService(db),
	}
}

// respondOrderError maps ledger errors onto HTTP statuses.
func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrOrderNotCancellable):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// GetAllOrders lists orders scoped by role: buyers see their own, owners
// their restaurant's, admins everything.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	filter := services.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = v
	}

	switch role {
	case models.RoleUser:
		filter.UserID = userID
	case models.RoleRestaurantOwner:
		if v, err := strconv.Atoi(c.Query("restaurant_id")); err == nil {
			filter.RestaurantID = uint(v)
		}
	}

	orders, err := oc.Orders.FindAll(filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> one order with its line items. Buyers may only read
// their own.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Orders.FindByID(uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	if c.GetString("role") == models.RoleUser && order.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder places an order for the authenticated user. Header, line
// items, inventory decrements and the coupon increment commit together;
// delivery tracking and the notification happen after the commit and are
// best-effort.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	type reqBody struct {
		RestaurantID   uint                      `json:"restaurant_id" binding:"required"`
		Items          []services.OrderItemInput `json:"items" binding:"required"`
		TotalAmount    float64                   `json:"total_amount"`
		DiscountAmount float64                   `json:"discount_amount"`
		CouponID       *uint                     `json:"coupon_id"`
		FinalAmount    float64                   `json:"final_amount"`
		PaymentMethod  *string                   `json:"payment_method"`
		Address        *string                   `json:"address"`
		Notes          *string                   `json:"notes"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orderID, err := oc.Orders.Create(services.CreateOrderInput{
		UserID:         userID,
		RestaurantID:   body.RestaurantID,
		Items:          body.Items,
		TotalAmount:    body.TotalAmount,
		DiscountAmount: body.DiscountAmount,
		CouponID:       body.CouponID,
		FinalAmount:    body.FinalAmount,
		PaymentMethod:  body.PaymentMethod,
		Address:        body.Address,
		Notes:          body.Notes,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	if _, err := oc.Delivery.CreateForOrder(orderID); err != nil {
		utils.ErrorLogger.Printf("create delivery tracking for order %d: %v", orderID, err)
	}

	order, err := oc.Orders.FindByID(orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	if err := oc.Notifications.OrderCreated(order); err != nil {
		utils.ErrorLogger.Printf("notify order %d created: %v", orderID, err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateOrderStatus is for restaurant owners (their own restaurant only)
// and admins. Delivery-facing statuses are pushed to the tracking record
// after the write.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))
	role := c.GetString("role")

	order, err := oc.Orders.FindByID(uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	if role == models.RoleRestaurantOwner {
		var restaurant models.Restaurant
		if err := oc.DB.First(&restaurant, order.RestaurantID).Error; err != nil ||
			restaurant.OwnerID != c.GetUint("user_id") {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Orders.UpdateStatus(uint(id), req.Status); err != nil {
		respondOrderError(c, err)
		return
	}

	switch req.Status {
	case models.OrderStatusReady, models.OrderStatusPickedUp, models.OrderStatusDelivered:
		if err := oc.Delivery.UpdateStatus(uint(id), req.Status, nil, nil); err != nil {
			utils.ErrorLogger.Printf("update delivery status for order %d: %v", id, err)
		}
	}

	if err := oc.Notifications.OrderStatusChanged(order, req.Status); err != nil {
		utils.ErrorLogger.Printf("notify order %d status change: %v", id, err)
	}

	updated, err := oc.Orders.FindByID(uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", updated)
}

// UpdatePaymentStatus writes the payment state independent of the order
// lifecycle.
func (oc *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Orders.UpdatePaymentStatus(uint(id), req.PaymentStatus); err != nil {
		respondOrderError(c, err)
		return
	}

	updated, err := oc.Orders.FindByID(uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status updated", updated)
}

// CancelOrder cancels the caller's own order. Not-found and not-owned are
// deliberately the same answer.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))
	userID := c.GetUint("user_id")

	if err := oc.Orders.Cancel(uint(id), userID); err != nil {
		respondOrderError(c, err)
		return
	}

	order, err := oc.Orders.FindByID(uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	if err := oc.Notifications.OrderStatusChanged(order, models.OrderStatusCancelled); err != nil {
		utils.ErrorLogger.Printf("notify order %d cancelled: %v", id, err)
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
