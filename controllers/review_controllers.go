package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// GetReviewsByRestaurant -> public, optional rating filter.
func (rc *ReviewController) GetReviewsByRestaurant(c *gin.Context) {
	restaurantID, _ := strconv.Atoi(c.Param("restaurant_id"))

	q := rc.DB.Where("restaurant_id = ?", restaurantID).Order("created_at DESC")
	if v, err := strconv.Atoi(c.Query("rating")); err == nil {
		q = q.Where("rating = ?", v)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		q = q.Limit(v)
	}

	reviews := make([]models.Review, 0)
	if err := q.Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reviews", reviews)
}

// CreateReview -> buyer reviews their own delivered order, once. The review
// insert and the restaurant rating aggregate move together.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		OrderID uint   `json:"order_id" binding:"required"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := rc.DB.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, &CustomError{"order not found or unauthorized"})
		return
	}
	if order.Status != models.OrderStatusDelivered {
		utils.RespondError(c, http.StatusConflict, &CustomError{"only delivered orders can be reviewed"})
		return
	}

	review := models.Review{
		UserID:       userID,
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		// Recompute the aggregate from the source rows; cheaper running
		// averages drift when reviews are deleted.
		return tx.Exec(`UPDATE restaurants SET
			rating = (SELECT AVG(rating) FROM reviews WHERE restaurant_id = ?),
			total_reviews = (SELECT COUNT(*) FROM reviews WHERE restaurant_id = ?)
			WHERE id = ?`,
			order.RestaurantID, order.RestaurantID, order.RestaurantID).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}

// DeleteReview -> author or admin.
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("review_id"))

	var review models.Review
	if err := rc.DB.First(&review, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if c.GetString("role") != models.RoleAdmin && review.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return tx.Exec(`UPDATE restaurants SET
			rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE restaurant_id = ?), 0),
			total_reviews = (SELECT COUNT(*) FROM reviews WHERE restaurant_id = ?)
			WHERE id = ?`,
			review.RestaurantID, review.RestaurantID, review.RestaurantID).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review deleted", gin.H{"review_id": id})
}
