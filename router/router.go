package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/controllers"
	"github.com/mealrescue/marketplace-api/middlewares"
	"github.com/mealrescue/marketplace-api/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	foodItemCtrl := controllers.NewFoodItemController(db)
	orderCtrl := controllers.NewOrderController(db)
	couponCtrl := controllers.NewCouponController(db)
	reviewCtrl := controllers.NewReviewController(db)
	addressCtrl := controllers.NewAddressController(db)
	notifCtrl := controllers.NewNotificationController(db)
	deliveryCtrl := controllers.NewDeliveryController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	api.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	api.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	api.GET("/food-items", foodItemCtrl.GetAllFoodItems)
	api.GET("/food-items/:item_id", foodItemCtrl.GetFoodItemByID)
	api.GET("/reviews/restaurant/:restaurant_id", reviewCtrl.GetReviewsByRestaurant)
	api.GET("/delivery/track/:tracking_number", deliveryCtrl.TrackByNumber)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := api.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/profile", userCtrl.GetProfile)
		authed.PUT("/profile", userCtrl.UpdateProfile)

		// Orders: creation and cancellation are buyer actions, status
		// changes belong to restaurant owners and admins.
		authed.GET("/orders", orderCtrl.GetAllOrders)
		authed.POST("/orders", orderCtrl.CreateOrder)
		authed.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		authed.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
		authed.PUT("/orders/:order_id/status",
			middlewares.RequireRoles(models.RoleRestaurantOwner), orderCtrl.UpdateOrderStatus)
		authed.PUT("/orders/:order_id/payment", orderCtrl.UpdatePaymentStatus)

		// Restaurants
		authed.GET("/my/restaurants",
			middlewares.RequireRoles(models.RoleRestaurantOwner), restaurantCtrl.GetMyRestaurants)
		authed.POST("/restaurants",
			middlewares.RequireRoles(models.RoleRestaurantOwner), restaurantCtrl.CreateRestaurant)
		authed.PUT("/restaurants/:restaurant_id",
			middlewares.RequireRoles(models.RoleRestaurantOwner), restaurantCtrl.UpdateRestaurant)
		authed.DELETE("/restaurants/:restaurant_id",
			middlewares.RequireAdmin(), restaurantCtrl.DeleteRestaurant)

		// Food items
		authed.POST("/food-items",
			middlewares.RequireRoles(models.RoleRestaurantOwner), foodItemCtrl.CreateFoodItem)
		authed.PUT("/food-items/:item_id",
			middlewares.RequireRoles(models.RoleRestaurantOwner), foodItemCtrl.UpdateFoodItem)
		authed.DELETE("/food-items/:item_id",
			middlewares.RequireRoles(models.RoleRestaurantOwner), foodItemCtrl.DeleteFoodItem)

		// Coupons
		authed.POST("/coupons/validate", couponCtrl.ValidateCoupon)
		authed.GET("/coupons",
			middlewares.RequireRoles(models.RoleRestaurantOwner), couponCtrl.GetAllCoupons)
		authed.POST("/coupons",
			middlewares.RequireRoles(models.RoleRestaurantOwner), couponCtrl.CreateCoupon)
		authed.PUT("/coupons/:coupon_id", middlewares.RequireAdmin(), couponCtrl.UpdateCoupon)
		authed.DELETE("/coupons/:coupon_id", middlewares.RequireAdmin(), couponCtrl.DeleteCoupon)

		// Reviews
		authed.POST("/reviews", reviewCtrl.CreateReview)
		authed.DELETE("/reviews/:review_id", reviewCtrl.DeleteReview)

		// Addresses
		authed.GET("/addresses", addressCtrl.GetMyAddresses)
		authed.GET("/addresses/default", addressCtrl.GetDefaultAddress)
		authed.POST("/addresses", addressCtrl.CreateAddress)
		authed.PUT("/addresses/:address_id", addressCtrl.UpdateAddress)
		authed.DELETE("/addresses/:address_id", addressCtrl.DeleteAddress)

		// Notifications
		authed.GET("/notifications", notifCtrl.GetMyNotifications)
		authed.GET("/notifications/unread-count", notifCtrl.GetUnreadCount)
		authed.PUT("/notifications/:notif_id/read", notifCtrl.MarkAsRead)
		authed.PUT("/notifications/read-all", notifCtrl.MarkAllAsRead)
		authed.DELETE("/notifications/:notif_id", notifCtrl.DeleteNotification)

		// Delivery tracking
		authed.GET("/delivery/:order_id", deliveryCtrl.GetByOrderID)
		authed.POST("/delivery/:order_id/update", middlewares.RequireAdmin(), deliveryCtrl.UpdateStatus)
		authed.POST("/delivery/:order_id/webhook", middlewares.RequireAdmin(), deliveryCtrl.Webhook)

		// Admin
		admin := authed.Group("/admin")
		admin.Use(middlewares.RequireAdmin())
		{
			admin.GET("/dashboard", adminCtrl.GetDashboard)
			admin.GET("/revenue", adminCtrl.GetRevenueChart)
			admin.GET("/top-restaurants", adminCtrl.GetTopRestaurants)
			admin.GET("/users", adminCtrl.GetAllUsers)
			admin.GET("/restaurants", adminCtrl.GetAllRestaurantsAdmin)
		}
	}

	return r
}
