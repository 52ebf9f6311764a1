package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/services"
	"github.com/mealrescue/marketplace-api/utils"
)

type DeliveryController struct {
	DB       *gorm.DB
	Orders   *services.OrderService
	Delivery *services.DeliveryService
}

func NewDeliveryController(db *gorm.DB) *DeliveryController {
	return &DeliveryController{
		DB:       db,
		Orders:   services.NewOrderService(db),
		Delivery: services.NewDeliveryService(db),
	}
}

// GetByOrderID -> tracking record for an order; buyers only their own.
func (dc *DeliveryController) GetByOrderID(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	order, err := dc.Orders.FindByID(uint(orderID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"order not found"})
		return
	}

	if c.GetString("role") == models.RoleUser && order.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	tracking, err := dc.Delivery.FindByOrderID(uint(orderID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"delivery tracking not found"})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Delivery tracking", tracking)
}

// TrackByNumber -> public lookup by tracking number.
func (dc *DeliveryController) TrackByNumber(c *gin.Context) {
	tracking, err := dc.Delivery.FindByTrackingNumber(c.Param("tracking_number"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"tracking number not found"})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery tracking", tracking)
}

// UpdateStatus -> admin/system push of a new delivery status.
func (dc *DeliveryController) UpdateStatus(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		Status                string     `json:"status" binding:"required"`
		CurrentLocation       *string    `json:"current_location"`
		EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := dc.Delivery.UpdateStatus(uint(orderID), req.Status, req.CurrentLocation, req.EstimatedDeliveryTime); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tracking, err := dc.Delivery.FindByOrderID(uint(orderID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery status updated", tracking)
}

// Webhook ingests a delivery partner callback. A delivered status settles
// the order and its payment as well.
func (dc *DeliveryController) Webhook(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var upd services.ExternalUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := dc.Delivery.ApplyExternalUpdate(uint(orderID), upd); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("External delivery update for order %d: %s", orderID, upd.Status)
	utils.RespondJSON(c, http.StatusOK, "Delivery update applied", nil)
}
