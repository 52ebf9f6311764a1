package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/utils"
)

type FoodItemController struct {
	DB *gorm.DB
}

func NewFoodItemController(db *gorm.DB) *FoodItemController {
	return &FoodItemController{DB: db}
}

// ownsRestaurant checks that the caller owns the given restaurant; admins
// always pass.
func (fc *FoodItemController) ownsRestaurant(c *gin.Context, restaurantID uint) bool {
	if c.GetString("role") == models.RoleAdmin {
		return true
	}
	var restaurant models.Restaurant
	if err := fc.DB.First(&restaurant, restaurantID).Error; err != nil {
		return false
	}
	return restaurant.OwnerID == c.GetUint("user_id")
}

// GetAllFoodItems -> public listing.
func (fc *FoodItemController) GetAllFoodItems(c *gin.Context) {
	q := fc.DB.Order("created_at DESC")

	if v, err := strconv.Atoi(c.Query("restaurant_id")); err == nil {
		q = q.Where("restaurant_id = ?", v)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		q = q.Limit(v)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		q = q.Offset(v)
	}

	items := make([]models.FoodItem, 0)
	if err := q.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of food items", items)
}

func (fc *FoodItemController) GetFoodItemByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.FoodItem
	if err := fc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food item detail", item)
}

// CreateFoodItem -> owner of the target restaurant or admin.
func (fc *FoodItemController) CreateFoodItem(c *gin.Context) {
	type request struct {
		RestaurantID      uint       `json:"restaurant_id" binding:"required"`
		Name              string     `json:"name" binding:"required"`
		Description       string     `json:"description"`
		Category          string     `json:"category"`
		Images            string     `json:"images"`
		OriginalPrice     float64    `json:"original_price" binding:"required"`
		DiscountedPrice   float64    `json:"discounted_price" binding:"required"`
		QuantityAvailable int        `json:"quantity_available"`
		ExpiryTime        *time.Time `json:"expiry_time"`
		PickupTimeWindow  string     `json:"pickup_time_window"`
		Ingredients       string     `json:"ingredients"`
		Allergens         string     `json:"allergens"`
		DietaryInfo       string     `json:"dietary_info"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !fc.ownsRestaurant(c, req.RestaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	item := models.FoodItem{
		RestaurantID:      req.RestaurantID,
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Images:            req.Images,
		OriginalPrice:     req.OriginalPrice,
		DiscountedPrice:   req.DiscountedPrice,
		QuantityAvailable: req.QuantityAvailable,
		ExpiryTime:        req.ExpiryTime,
		PickupTimeWindow:  req.PickupTimeWindow,
		Ingredients:       req.Ingredients,
		Allergens:         req.Allergens,
		DietaryInfo:       req.DietaryInfo,
	}
	if err := fc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Food item created", item)
}

// UpdateFoodItem -> owner or admin.
func (fc *FoodItemController) UpdateFoodItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.FoodItem
	if err := fc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !fc.ownsRestaurant(c, item.RestaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name              *string    `json:"name"`
		Description       *string    `json:"description"`
		Category          *string    `json:"category"`
		Images            *string    `json:"images"`
		OriginalPrice     *float64   `json:"original_price"`
		DiscountedPrice   *float64   `json:"discounted_price"`
		QuantityAvailable *int       `json:"quantity_available"`
		ExpiryTime        *time.Time `json:"expiry_time"`
		PickupTimeWindow  *string    `json:"pickup_time_window"`
		Status            *string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Images != nil {
		item.Images = *req.Images
	}
	if req.OriginalPrice != nil {
		item.OriginalPrice = *req.OriginalPrice
	}
	if req.DiscountedPrice != nil {
		item.DiscountedPrice = *req.DiscountedPrice
	}
	if req.QuantityAvailable != nil {
		item.QuantityAvailable = *req.QuantityAvailable
	}
	if req.ExpiryTime != nil {
		item.ExpiryTime = req.ExpiryTime
	}
	if req.PickupTimeWindow != nil {
		item.PickupTimeWindow = *req.PickupTimeWindow
	}
	if req.Status != nil {
		item.Status = *req.Status
	}

	if err := fc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food item updated", item)
}

// DeleteFoodItem -> owner or admin.
func (fc *FoodItemController) DeleteFoodItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.FoodItem
	if err := fc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !fc.ownsRestaurant(c, item.RestaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := fc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food item deleted", gin.H{"item_id": id})
}
