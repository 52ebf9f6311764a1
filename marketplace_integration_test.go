package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
	"github.com/mealrescue/marketplace-api/router"
	"github.com/mealrescue/marketplace-api/utils"
)

// TestOrderLifecycle drives the whole marketplace through the HTTP surface:
// accounts come in through the auth endpoints, an order is placed against
// seeded inventory with a coupon, moves through the kitchen, and is finally
// cancelled with its inventory restored.
func TestOrderLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	autoMigrate(db)

	r := router.SetupRouter(db)

	call := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var raw []byte
		if body != nil {
			raw, err = json.Marshal(body)
			require.NoError(t, err)
		}
		req, err := http.NewRequest(method, path, bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var envelope utils.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data, _ := envelope.Data.(map[string]interface{})
		return data
	}

	// Accounts arrive through the public auth endpoints.
	w := call(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Hungry Buyer",
		"email":    "buyer@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	buyerToken := decode(w)["token"].(string)

	w = call(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Kitchen Owner",
		"email":    "owner@example.com",
		"password": "secret123",
		"role":     "restaurant_owner",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	ownerToken := decode(w)["token"].(string)

	// The owner sets up shop and lists a surplus item.
	w = call(http.MethodPost, "/api/restaurants", ownerToken, map[string]interface{}{
		"name":    "Corner Kitchen",
		"address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	restaurantID := uint(decode(w)["id"].(float64))

	w = call(http.MethodPost, "/api/food-items", ownerToken, map[string]interface{}{
		"restaurant_id":      restaurantID,
		"name":               "Surplus Bento",
		"original_price":     15.0,
		"discounted_price":   10.0,
		"quantity_available": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := uint(decode(w)["id"].(float64))

	coupon := models.Coupon{
		Code:       "WELCOME10",
		Type:       models.CouponTypePercentage,
		Value:      10,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(24 * time.Hour),
		Status:     models.CouponStatusActive,
	}
	require.NoError(t, db.Create(&coupon).Error)

	// The buyer checks the coupon before ordering.
	w = call(http.MethodPost, "/api/coupons/validate", buyerToken, map[string]interface{}{
		"code":          "WELCOME10",
		"order_amount":  20.0,
		"restaurant_id": restaurantID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	validation := decode(w)
	require.Equal(t, true, validation["valid"])
	discount := validation["discount_amount"].(float64)
	assert.Equal(t, 2.0, discount)

	// Two bentos, discounted by the coupon.
	w = call(http.MethodPost, "/api/orders", buyerToken, map[string]interface{}{
		"restaurant_id": restaurantID,
		"items": []map[string]interface{}{
			{
				"food_item_id":   itemID,
				"food_item_name": "Surplus Bento",
				"quantity":       2,
				"unit_price":     10.0,
				"total_price":    20.0,
			},
		},
		"total_amount":    20.0,
		"discount_amount": discount,
		"coupon_id":       coupon.ID,
		"final_amount":    20.0 - discount,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode(w)
	orderID := int(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])

	// Inventory moved with the order.
	w = call(http.MethodGet, fmt.Sprintf("/api/food-items/%d", itemID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(w)["quantity_available"])

	// The kitchen confirms.
	w = call(http.MethodPut, fmt.Sprintf("/api/orders/%d/status", orderID), ownerToken,
		map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode(w)["status"])

	// The buyer backs out while the order is still cancellable.
	w = call(http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", orderID), buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode(w)["status"])

	// Inventory came back, coupon usage did not.
	w = call(http.MethodGet, fmt.Sprintf("/api/food-items/%d", itemID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decode(w)["quantity_available"])

	var usedCoupon models.Coupon
	require.NoError(t, db.First(&usedCoupon, coupon.ID).Error)
	assert.Equal(t, 1, usedCoupon.UsedCount)

	// A second cancel has nothing left to cancel.
	w = call(http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", orderID), buyerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
