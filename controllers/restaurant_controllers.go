package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// GetAllRestaurants -> public listing with optional category filter.
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	q := rc.DB.Where("status = ?", "active").Order("created_at DESC")

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		q = q.Limit(v)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		q = q.Offset(v)
	}

	restaurants := make([]models.Restaurant, 0)
	if err := q.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("restaurant_id"))

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// GetMyRestaurants lists the restaurants owned by the caller.
func (rc *RestaurantController) GetMyRestaurants(c *gin.Context) {
	ownerID := c.GetUint("user_id")

	restaurants := make([]models.Restaurant, 0)
	if err := rc.DB.Where("owner_id = ?", ownerID).Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My restaurants", restaurants)
}

// CreateRestaurant -> restaurant_owner or admin.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	type request struct {
		Name           string   `json:"name" binding:"required"`
		Description    string   `json:"description"`
		Category       string   `json:"category"`
		Address        string   `json:"address"`
		Latitude       *float64 `json:"latitude"`
		Longitude      *float64 `json:"longitude"`
		Phone          string   `json:"phone"`
		Email          string   `json:"email"`
		Images         string   `json:"images"`
		OperatingHours string   `json:"operating_hours"`
		CommissionRate float64  `json:"commission_rate"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		OwnerID:        c.GetUint("user_id"),
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Phone:          req.Phone,
		Email:          req.Email,
		Images:         req.Images,
		OperatingHours: req.OperatingHours,
		CommissionRate: req.CommissionRate,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant created: %s (owner=%d)", restaurant.Name, restaurant.OwnerID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// UpdateRestaurant -> owner of the restaurant or admin.
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("restaurant_id"))

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if c.GetString("role") != models.RoleAdmin && restaurant.OwnerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		Category       *string `json:"category"`
		Address        *string `json:"address"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email"`
		Images         *string `json:"images"`
		OperatingHours *string `json:"operating_hours"`
		Status         *string `json:"status"`
		Verified       *bool   `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Category != nil {
		restaurant.Category = *req.Category
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Email != nil {
		restaurant.Email = *req.Email
	}
	if req.Images != nil {
		restaurant.Images = *req.Images
	}
	if req.OperatingHours != nil {
		restaurant.OperatingHours = *req.OperatingHours
	}
	if req.Status != nil {
		restaurant.Status = *req.Status
	}
	// Verification is an admin call only.
	if req.Verified != nil && c.GetString("role") == models.RoleAdmin {
		restaurant.Verified = *req.Verified
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant -> admin only.
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("restaurant_id"))

	if err := rc.DB.Delete(&models.Restaurant{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}
