package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealrescue/marketplace-api/models"
)

func orderPayload(item models.FoodItem, quantity int) map[string]interface{} {
	total := float64(quantity) * item.DiscountedPrice
	return map[string]interface{}{
		"restaurant_id": item.RestaurantID,
		"items": []map[string]interface{}{
			{
				"food_item_id":   item.ID,
				"food_item_name": item.Name,
				"quantity":       quantity,
				"unit_price":     item.DiscountedPrice,
				"total_price":    total,
			},
		},
		"total_amount": total,
		"final_amount": total,
	}
}

func itemQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var item models.FoodItem
	require.NoError(t, db.First(&item, id).Error)
	return item.QuantityAvailable
}

func TestCreateOrderEndpoint(t *testing.T) {
	r, db := setupTestEnv(t)
	_, buyerToken := createUser(t, db, "buyer@example.com", "user")
	owner, _ := createUser(t, db, "owner@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders", buyerToken, orderPayload(item, 2))
	require.Equal(t, http.StatusCreated, w.Code)

	envelope, order := decodeEnvelope(t, w)
	assert.True(t, envelope.Status)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "pending", order["payment_status"])
	assert.Contains(t, order["order_number"], "ORD-")

	assert.Equal(t, 3, itemQuantity(t, db, item.ID))

	// Delivery tracking and the buyer notification ride along post-commit.
	var tracking int64
	db.Model(&models.DeliveryTracking{}).Count(&tracking)
	assert.EqualValues(t, 1, tracking)

	var notifs int64
	db.Model(&models.Notification{}).Count(&notifs)
	assert.EqualValues(t, 1, notifs)
}

func TestCreateOrderEndpointInsufficientStock(t *testing.T) {
	r, db := setupTestEnv(t)
	_, buyerToken := createUser(t, db, "buyer@example.com", "user")
	owner, _ := createUser(t, db, "owner@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 1)

	w := doJSON(t, r, http.MethodPost, "/api/orders", buyerToken, orderPayload(item, 3))
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, 1, itemQuantity(t, db, item.ID))
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestCreateOrderEndpointRequiresAuth(t *testing.T) {
	r, db := setupTestEnv(t)
	owner, _ := createUser(t, db, "owner@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders", "", orderPayload(item, 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetOrderScoping(t *testing.T) {
	r, db := setupTestEnv(t)
	_, buyerToken := createUser(t, db, "buyer@example.com", "user")
	_, otherToken := createUser(t, db, "other@example.com", "user")
	owner, _ := createUser(t, db, "owner@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders", buyerToken, orderPayload(item, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	_, order := decodeEnvelope(t, w)
	orderID := int(order["id"].(float64))

	// The buyer reads their own order.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), buyerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another buyer may not.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Listing is scoped: the other buyer sees nothing.
	w = doJSON(t, r, http.MethodGet, "/api/orders", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope, _ := decodeEnvelope(t, w)
	list, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	assert.Empty(t, list)
}

func TestCancelOrderEndpoint(t *testing.T) {
	r, db := setupTestEnv(t)
	_, buyerToken := createUser(t, db, "buyer@example.com", "user")
	_, otherToken := createUser(t, db, "other@example.com", "user")
	owner, _ := createUser(t, db, "owner@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders", buyerToken, orderPayload(item, 2))
	require.Equal(t, http.StatusCreated, w.Code)
	_, order := decodeEnvelope(t, w)
	orderID := int(order["id"].(float64))
	require.Equal(t, 3, itemQuantity(t, db, item.ID))

	// Someone else's cancel reads as not found, not forbidden.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", orderID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 3, itemQuantity(t, db, item.ID))

	// The buyer's cancel restores the inventory.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", orderID), buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, cancelled := decodeEnvelope(t, w)
	assert.Equal(t, "cancelled", cancelled["status"])
	assert.Equal(t, 5, itemQuantity(t, db, item.ID))

	// Cancelling twice conflicts and restores nothing further.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", orderID), buyerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 5, itemQuantity(t, db, item.ID))
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	r, db := setupTestEnv(t)
	_, buyerToken := createUser(t, db, "buyer@example.com", "user")
	owner, ownerToken := createUser(t, db, "owner@example.com", "restaurant_owner")
	_, strangerToken := createUser(t, db, "rival@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders", buyerToken, orderPayload(item, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	_, order := decodeEnvelope(t, w)
	orderID := int(order["id"].(float64))
	statusPath := fmt.Sprintf("/api/orders/%d/status", orderID)

	// Buyers cannot move an order through the kitchen.
	w = doJSON(t, r, http.MethodPut, statusPath, buyerToken, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Neither can an owner of a different restaurant.
	w = doJSON(t, r, http.MethodPut, statusPath, strangerToken, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The restaurant's own owner can.
	w = doJSON(t, r, http.MethodPut, statusPath, ownerToken, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	_, updated := decodeEnvelope(t, w)
	assert.Equal(t, "confirmed", updated["status"])

	// Unknown statuses are rejected.
	w = doJSON(t, r, http.MethodPut, statusPath, ownerToken, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePaymentStatusEndpoint(t *testing.T) {
	r, db := setupTestEnv(t)
	_, buyerToken := createUser(t, db, "buyer@example.com", "user")
	owner, _ := createUser(t, db, "owner@example.com", "restaurant_owner")
	restaurant := createRestaurant(t, db, owner.ID)
	item := createFoodItem(t, db, restaurant.ID, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders", buyerToken, orderPayload(item, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	_, order := decodeEnvelope(t, w)
	orderID := int(order["id"].(float64))
	paymentPath := fmt.Sprintf("/api/orders/%d/payment", orderID)

	w = doJSON(t, r, http.MethodPut, paymentPath, buyerToken, map[string]string{"payment_status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	_, updated := decodeEnvelope(t, w)
	assert.Equal(t, "paid", updated["payment_status"])
	// The lifecycle status is untouched.
	assert.Equal(t, "pending", updated["status"])

	w = doJSON(t, r, http.MethodPut, paymentPath, buyerToken, map[string]string{"payment_status": "iou"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
