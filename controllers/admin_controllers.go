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

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboard -> headline counts and revenue for the admin overview.
func (ac *AdminController) GetDashboard(c *gin.Context) {
	var stats struct {
		TotalUsers       int64   `json:"total_users"`
		TotalRestaurants int64   `json:"total_restaurants"`
		TotalOrders      int64   `json:"total_orders"`
		TotalRevenue     float64 `json:"total_revenue"`
		OrdersByStatus   []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"orders_by_status"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.Restaurant{}).Count(&stats.TotalRestaurants)
	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)

	// Revenue counts only delivered orders, at the discounted final amount.
	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusDelivered).
		Select("COALESCE(SUM(final_amount), 0)").
		Row().Scan(&stats.TotalRevenue)

	ac.DB.Raw(`
		SELECT status, COUNT(*) as count
		FROM orders
		GROUP BY status
	`).Scan(&stats.OrdersByStatus)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetRevenueChart -> daily delivered revenue for the last N days.
func (ac *AdminController) GetRevenueChart(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	var rows []struct {
		Day     string  `json:"day"`
		Orders  int64   `json:"orders"`
		Revenue float64 `json:"revenue"`
	}

	since := time.Now().AddDate(0, 0, -days)
	if err := ac.DB.Raw(`
		SELECT DATE(created_at) as day, COUNT(*) as orders,
		COALESCE(SUM(final_amount), 0) as revenue
		FROM orders
		WHERE status = ? AND created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY day ASC
	`, models.OrderStatusDelivered, since).Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Revenue chart", rows)
}

// GetTopRestaurants -> delivered order volume and revenue per restaurant.
func (ac *AdminController) GetTopRestaurants(c *gin.Context) {
	var rows []struct {
		RestaurantID   uint    `json:"restaurant_id"`
		RestaurantName string  `json:"restaurant_name"`
		Orders         int64   `json:"orders"`
		Revenue        float64 `json:"revenue"`
	}

	if err := ac.DB.Raw(`
		SELECT r.id as restaurant_id, r.name as restaurant_name,
		COUNT(o.id) as orders, COALESCE(SUM(o.final_amount), 0) as revenue
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.id
		WHERE o.status = ?
		GROUP BY r.id, r.name
		ORDER BY revenue DESC
		LIMIT 10
	`, models.OrderStatusDelivered).Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Top restaurants", rows)
}

// GetAllUsers -> admin listing with role filter and pagination.
func (ac *AdminController) GetAllUsers(c *gin.Context) {
	q := ac.DB.Order("created_at DESC")

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		q = q.Limit(v)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		q = q.Offset(v)
	}

	users := make([]models.User, 0)
	if err := q.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// GetAllRestaurantsAdmin -> unfiltered restaurant listing for admins.
func (ac *AdminController) GetAllRestaurantsAdmin(c *gin.Context) {
	q := ac.DB.Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if verified := c.Query("verified"); verified != "" {
		q = q.Where("verified = ?", verified == "true")
	}

	restaurants := make([]models.Restaurant, 0)
	if err := q.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}
