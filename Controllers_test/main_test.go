package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/router"
	"github.com/mealrescue/marketplace-api/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestEnv builds a router over an isolated in-memory database. The
// pool is capped at one connection so every handler sees the same store.
func setupTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.FoodItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.Review{},
		&models.UserAddress{},
		&models.Notification{},
		&models.DeliveryTracking{},
	))

	return router.SetupRouter(db), db
}

// createUser seeds an account directly and returns it with a valid token.
func createUser(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:     "Test " + role,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func createRestaurant(t *testing.T, db *gorm.DB, ownerID uint) models.Restaurant {
	t.Helper()

	restaurant := models.Restaurant{
		OwnerID: ownerID,
		Name:    "Corner Kitchen",
		Address: "1 Main St",
		Status:  "active",
	}
	require.NoError(t, db.Create(&restaurant).Error)
	return restaurant
}

func createFoodItem(t *testing.T, db *gorm.DB, restaurantID uint, quantity int) models.FoodItem {
	t.Helper()

	item := models.FoodItem{
		RestaurantID:      restaurantID,
		Name:              "Surplus Bento",
		OriginalPrice:     15.0,
		DiscountedPrice:   10.0,
		QuantityAvailable: quantity,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

// doJSON performs a request against the router, optionally authenticated.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeEnvelope unpacks the standard response envelope and returns data.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (utils.JSONResponse, map[string]interface{}) {
	t.Helper()

	var envelope utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	data, _ := envelope.Data.(map[string]interface{})
	return envelope, data
}
